// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/walink-backend/internal/config"
	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/metrics"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
)

const (
	revokedPrefix  = "revoked:"
	failuresPrefix = "signin:failures:"
)

// IdentityListener receives every sign-in (identity set) and sign-out (identity nil).
type IdentityListener func(ownerID string, identity *model.Identity)

// Session is what a successful sign-up or sign-in returns.
type Session struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Identity  model.Identity `json:"identity"`
}

type credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type AuthService struct {
	Users repository.UserRepositoryInterface
	Redis *redis.Client
	Log   *zap.Logger
	Now   func() time.Time

	secret            []byte
	issuer            string
	tokenTTL          time.Duration
	minPasswordLength int
	maxFailures       int
	throttleWindow    time.Duration
	bcryptCost        int
	validate          *validator.Validate

	mu        sync.RWMutex
	listeners map[int]IdentityListener
	nextID    int
}

func NewAuthService(cfg config.AuthConfig, users repository.UserRepositoryInterface, rdb *redis.Client, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		Users:             users,
		Redis:             rdb,
		Log:               log,
		Now:               time.Now,
		secret:            []byte(cfg.JWTSecret),
		issuer:            cfg.Issuer,
		tokenTTL:          config.GetSeconds(cfg.TokenTTL),
		minPasswordLength: cfg.MinPasswordLength,
		maxFailures:       cfg.MaxFailedSignIns,
		throttleWindow:    config.GetSeconds(cfg.ThrottleWindow),
		bcryptCost:        cost,
		validate:          newValidator(),
		listeners:         make(map[int]IdentityListener),
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Subscribe registers fn for identity changes and returns a function that removes it.
func (s *AuthService) Subscribe(fn IdentityListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *AuthService) publish(ownerID string, identity *model.Identity) {
	s.mu.RLock()
	fns := make([]IdentityListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ownerID, identity)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) checkCredentials(email, password string) error {
	if err := s.validate.Struct(credentials{Email: email, Password: password}); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Password" {
			return appErrors.NewAuth(appErrors.AuthWeakPassword)
		}
		return appErrors.NewAuth(appErrors.AuthInvalidEmail)
	}
	return nil
}

// SignUp registers a new account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := s.checkCredentials(email, password); err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", authCode(err)).Inc()
		return nil, err
	}
	if len(password) < s.minPasswordLength {
		metrics.AuthAttempts.WithLabelValues("signup", string(appErrors.AuthWeakPassword)).Inc()
		return nil, appErrors.NewAuth(appErrors.AuthWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.NewBackend("auth.hash", appErrors.AuthMessage(""), err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			metrics.AuthAttempts.WithLabelValues("signup", string(appErrors.AuthEmailAlreadyInUse)).Inc()
			return nil, appErrors.NewAuth(appErrors.AuthEmailAlreadyInUse)
		}
		s.Log.Error("❌ failed to create user", zap.Error(err))
		return nil, appErrors.NewBackend("auth.signup", appErrors.AuthMessage(""), err)
	}

	s.Log.Info("👤 user registered", zap.String("user_id", user.ID))
	metrics.AuthAttempts.WithLabelValues("signup", "ok").Inc()
	return s.issue(user)
}

// SignIn checks credentials. Repeated failures for one email within the throttle window
// lock further attempts with auth/too-many-requests.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if err := s.checkCredentials(email, password); err != nil {
		metrics.AuthAttempts.WithLabelValues("signin", authCode(err)).Inc()
		return nil, err
	}

	if s.throttled(ctx, email) {
		metrics.AuthAttempts.WithLabelValues("signin", string(appErrors.AuthTooManyRequests)).Inc()
		return nil, appErrors.NewAuth(appErrors.AuthTooManyRequests)
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if appErrors.IsNotFound(err) {
			s.recordFailure(ctx, email)
			metrics.AuthAttempts.WithLabelValues("signin", string(appErrors.AuthUserNotFound)).Inc()
			return nil, appErrors.NewAuth(appErrors.AuthUserNotFound)
		}
		s.Log.Error("❌ failed to load user", zap.Error(err))
		return nil, appErrors.NewBackend("auth.signin", appErrors.AuthMessage(""), err)
	}
	if user.Disabled {
		metrics.AuthAttempts.WithLabelValues("signin", string(appErrors.AuthUserDisabled)).Inc()
		return nil, appErrors.NewAuth(appErrors.AuthUserDisabled)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		metrics.AuthAttempts.WithLabelValues("signin", string(appErrors.AuthWrongPassword)).Inc()
		return nil, appErrors.NewAuth(appErrors.AuthWrongPassword)
	}

	s.Redis.Del(ctx, failuresPrefix+email)
	metrics.AuthAttempts.WithLabelValues("signin", "ok").Inc()
	return s.issue(user)
}

// SignOut revokes the token until it would have expired anyway.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	identity, exp, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := exp.Sub(s.now())
	if ttl > 0 {
		if err := s.Redis.Set(ctx, revokedPrefix+identity.TokenID, "1", ttl).Err(); err != nil {
			return appErrors.NewBackend("auth.signout", appErrors.AuthMessage(""), err)
		}
	}
	s.Log.Info("👋 user signed out", zap.String("user_id", identity.UserID))
	s.publish(identity.UserID, nil)
	return nil
}

// Authenticate validates a bearer token and returns its identity. The account is looked up
// on every call so disabling a user locks out tokens already issued.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Identity, error) {
	identity, _, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.Redis.Exists(ctx, revokedPrefix+identity.TokenID).Result()
	if err != nil {
		return nil, appErrors.NewBackend("auth.verify", appErrors.AuthMessage(""), err)
	}
	if revoked > 0 {
		return nil, appErrors.NewAuth(appErrors.AuthInvalidToken)
	}

	user, err := s.Users.GetByID(ctx, identity.UserID)
	if err != nil {
		if appErrors.IsNotFound(err) {
			return nil, appErrors.NewAuth(appErrors.AuthInvalidToken)
		}
		return nil, appErrors.NewBackend("auth.verify", appErrors.AuthMessage(""), err)
	}
	if user.Disabled {
		return nil, appErrors.NewAuth(appErrors.AuthUserDisabled)
	}
	return identity, nil
}

func (s *AuthService) issue(user *model.User) (*Session, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	identity := model.Identity{UserID: user.ID, Email: user.Email, TokenID: uuid.NewString()}

	claims := jwt.MapClaims{
		"sub":   identity.UserID,
		"email": identity.Email,
		"jti":   identity.TokenID,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
		"iss":   s.issuer,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.NewBackend("auth.token", appErrors.AuthMessage(""), err)
	}

	s.publish(user.ID, &identity)
	return &Session{Token: token, ExpiresAt: exp, Identity: identity}, nil
}

func (s *AuthService) parse(token string) (*model.Identity, time.Time, error) {
	invalid := appErrors.NewAuth(appErrors.AuthInvalidToken)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, time.Time{}, invalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, time.Time{}, invalid
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	email, _ := claims["email"].(string)
	exp, err := claims.GetExpirationTime()
	if sub == "" || jti == "" || err != nil || exp == nil {
		return nil, time.Time{}, invalid
	}
	return &model.Identity{UserID: sub, Email: email, TokenID: jti}, exp.Time, nil
}

func (s *AuthService) throttled(ctx context.Context, email string) bool {
	if s.maxFailures <= 0 {
		return false
	}
	n, err := s.Redis.Get(ctx, failuresPrefix+email).Int()
	if err != nil {
		return false
	}
	return n >= s.maxFailures
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	key := failuresPrefix + email
	n, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		s.Log.Warn("⚠️ failed to record sign-in failure", zap.Error(err))
		return
	}
	if n == 1 {
		s.Redis.Expire(ctx, key, s.throttleWindow)
	}
}

func authCode(err error) string {
	var ae *appErrors.AuthError
	if errors.As(err, &ae) {
		return string(ae.Code)
	}
	return "error"
}
