// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Validation sentinels. They are reported to the user as-is and never reach storage.
var (
	ErrTemplateRequired           = NewValidation("templateId", "Selecciona una plantilla")
	ErrEmptyRecipients            = NewValidation("contacts", "No hay contactos en el grupo seleccionado")
	ErrManualSelectionUnsupported = NewValidation("contacts", "La selección personalizada no está implementada")
	ErrInvalidPhone               = NewValidation("phone", "Número de teléfono inválido. Debe contener entre 8 y 15 dígitos.")
	ErrEmptyBody                  = NewValidation("content", "El contenido de la plantilla no puede estar vacío")
	ErrScheduleInPast             = NewValidation("scheduledAt", "La fecha programada debe ser futura")
)

// ErrInvalidTransition is returned by lifecycle operations invoked from a state that does
// not allow them. Storage is not touched.
var ErrInvalidTransition = errors.New("invalid campaign state transition")

// ValidationError is a user input problem detected before any persistence call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidation is a helper constructor
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a record absent for the current owner.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.ID)
}

// NewNotFound is a helper constructor
func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewCampaignNotFound is a helper constructor
func NewCampaignNotFound(id string) error {
	return NewNotFound("campaign", id)
}

// BackendError wraps a storage or queue failure. Message is the generic text shown to the
// user; the wrapped error carries the detail for logs.
type BackendError struct {
	Op      string
	Message string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackend wraps err unless it already carries a more specific application error.
func NewBackend(op, message string, err error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return err
	}
	return &BackendError{Op: op, Message: message, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
