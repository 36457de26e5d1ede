package appErrors

import "fmt"

// AuthCode identifies an authentication failure.
type AuthCode string

const (
	AuthInvalidEmail        AuthCode = "auth/invalid-email"
	AuthUserDisabled        AuthCode = "auth/user-disabled"
	AuthUserNotFound        AuthCode = "auth/user-not-found"
	AuthWrongPassword       AuthCode = "auth/wrong-password"
	AuthEmailAlreadyInUse   AuthCode = "auth/email-already-in-use"
	AuthWeakPassword        AuthCode = "auth/weak-password"
	AuthOperationNotAllowed AuthCode = "auth/operation-not-allowed"
	AuthTooManyRequests     AuthCode = "auth/too-many-requests"
	AuthInvalidToken        AuthCode = "auth/invalid-token"
)

// AuthError is a coded authentication failure.
type AuthError struct {
	Code AuthCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewAuth is a helper constructor
func NewAuth(code AuthCode) error {
	return &AuthError{Code: code}
}

// AuthMessage maps a code to the text shown to the user.
func AuthMessage(code AuthCode) string {
	switch code {
	case AuthInvalidEmail:
		return "El correo electrónico no es válido"
	case AuthUserDisabled:
		return "Esta cuenta ha sido deshabilitada"
	case AuthUserNotFound:
		return "No existe una cuenta con este correo"
	case AuthWrongPassword:
		return "Contraseña incorrecta"
	case AuthEmailAlreadyInUse:
		return "Este correo ya está registrado"
	case AuthWeakPassword:
		return "La contraseña es demasiado débil"
	case AuthOperationNotAllowed:
		return "Operación no permitida"
	case AuthTooManyRequests:
		return "Demasiados intentos. Intenta más tarde"
	case AuthInvalidToken:
		return "La sesión no es válida. Inicia sesión de nuevo"
	default:
		return "Error de autenticación. Intenta de nuevo"
	}
}
