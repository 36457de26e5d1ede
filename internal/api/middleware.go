// internal/api/middleware.go
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	tokenKey
)

// Authenticator resolves a bearer token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Identity, error)
}

// WithIdentity attaches the caller's identity and token to ctx.
func WithIdentity(ctx context.Context, identity *model.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, tokenKey, token)
}

// IdentityFrom returns the identity set by RequireAuth, or nil.
func IdentityFrom(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey).(*model.Identity)
	return identity
}

// OwnerID is the authenticated user id; every store read and write is scoped by it.
func OwnerID(ctx context.Context) string {
	if identity := IdentityFrom(ctx); identity != nil {
		return identity.UserID
	}
	return ""
}

// Token returns the raw bearer token of the request.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(strings.TrimSpace(r.Header.Get("Authorization")), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, log, appErrors.NewAuth(appErrors.AuthInvalidToken), "")
				return
			}
			identity, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, log, err, "")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity, token)))
		})
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("📥 request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("owner_id", OwnerID(r.Context())))
		})
	}
}
