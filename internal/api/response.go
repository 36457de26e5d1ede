// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/notify"
)

// DefaultErrorMessage is shown for failures that carry no user-facing text of their own.
const DefaultErrorMessage = "Error al cargar los datos"

// Body is the JSON envelope of every response.
type Body struct {
	Data       any            `json:"data"`
	Pagination map[string]int `json:"pagination,omitempty"`
	Notice     *notify.Notice `json:"notice,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteData writes data with an optional notice.
func WriteData(w http.ResponseWriter, status int, data any, n *notify.Notice) {
	WriteJSON(w, status, Body{Data: data, Notice: n})
}

// WriteNotice writes a response carrying only a notice.
func WriteNotice(w http.ResponseWriter, status int, n notify.Notice) {
	WriteJSON(w, status, Body{Notice: &n})
}

// Notice returns a pointer for use in WriteData.
func Notice(n notify.Notice) *notify.Notice { return &n }

// Decode reads a JSON request body into v. A malformed body is a validation error.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return appErrors.NewValidation("body", "Solicitud inválida")
	}
	return nil
}

// WriteError maps err onto a status code and notice. fallback is the message for errors
// that do not carry one; backend detail only reaches the log.
func WriteError(w http.ResponseWriter, log *zap.Logger, err error, fallback string) {
	status, n := Classify(err, fallback)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("❌ request failed", zap.Int("status", status), zap.Error(err))
	}
	WriteNotice(w, status, n)
}

// Classify is the error table shared by every controller.
func Classify(err error, fallback string) (int, notify.Notice) {
	if fallback == "" {
		fallback = DefaultErrorMessage
	}

	var ve *appErrors.ValidationError
	var nf *appErrors.NotFoundError
	var ae *appErrors.AuthError
	var be *appErrors.BackendError

	switch {
	case errors.Is(err, appErrors.ErrManualSelectionUnsupported):
		return http.StatusBadRequest, notify.Info(appErrors.ErrManualSelectionUnsupported.Message)
	case errors.As(err, &ve):
		return http.StatusBadRequest, notify.Error(ve.Message)
	case errors.Is(err, appErrors.ErrInvalidTransition):
		return http.StatusConflict, notify.Error(fallback)
	case errors.As(err, &nf):
		return http.StatusNotFound, notify.Error(notFoundMessage(nf.Entity))
	case errors.As(err, &ae):
		return authStatus(ae.Code), notify.Error(appErrors.AuthMessage(ae.Code))
	case errors.As(err, &be):
		if be.Message != "" {
			return http.StatusInternalServerError, notify.Error(be.Message)
		}
	}
	return http.StatusInternalServerError, notify.Error(fallback)
}

func notFoundMessage(entity string) string {
	switch entity {
	case "campaign":
		return "Campaña no encontrada"
	case "template":
		return "Plantilla no encontrada"
	case "contact":
		return "Contacto no encontrado"
	default:
		return "Registro no encontrado"
	}
}

func authStatus(code appErrors.AuthCode) int {
	switch code {
	case appErrors.AuthInvalidToken, appErrors.AuthUserNotFound, appErrors.AuthWrongPassword, appErrors.AuthUserDisabled:
		return http.StatusUnauthorized
	case appErrors.AuthEmailAlreadyInUse:
		return http.StatusConflict
	case appErrors.AuthTooManyRequests:
		return http.StatusTooManyRequests
	case appErrors.AuthInvalidEmail, appErrors.AuthWeakPassword:
		return http.StatusBadRequest
	case appErrors.AuthOperationNotAllowed:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
