// internal/service/validation.go
package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
)

var phonePattern = regexp.MustCompile(`^\d{8,15}$`)

// SaveKind tells a save operation whether to insert or update.
type SaveKind int

const (
	SaveCreate SaveKind = iota
	SaveEdit
)

// SaveMode is the tagged mode passed to every save operation. ID is set only for edits.
type SaveMode struct {
	Kind SaveKind
	ID   string
}

func CreateMode() SaveMode { return SaveMode{Kind: SaveCreate} }

func EditMode(id string) SaveMode { return SaveMode{Kind: SaveEdit, ID: id} }

func (m SaveMode) IsEdit() bool { return m.Kind == SaveEdit }

func (m SaveMode) check() error {
	if m.Kind == SaveEdit && m.ID == "" {
		return appErrors.NewValidation("id", "Falta el identificador del registro")
	}
	return nil
}

// ValidPhone reports whether phone is 8 to 15 digits with no symbols.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func newValidator() *validator.Validate {
	v := validator.New()
	// Register custom validation for phone format
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

// fieldMessages maps struct fields to the text shown when their rule fails.
var fieldMessages = map[string]*appErrors.ValidationError{
	"Phone":    appErrors.ErrInvalidPhone,
	"Content":  appErrors.ErrEmptyBody,
	"Name":     appErrors.NewValidation("name", "El nombre es obligatorio"),
	"Email":    appErrors.NewValidation("email", "El correo electrónico no es válido"),
	"Password": appErrors.NewValidation("password", "La contraseña es obligatoria"),
}

// validationError turns the first validator failure into the matching ValidationError.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if v, ok := fieldMessages[verrs[0].Field()]; ok {
			return v
		}
		return appErrors.NewValidation(verrs[0].Field(), "Valor inválido")
	}
	return err
}
