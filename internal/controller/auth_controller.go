// internal/controller/auth_controller.go
package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/notify"
)

type AuthController struct {
	AuthService AuthAPI
	Log         *zap.Logger
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	session, err := c.AuthService.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusCreated, session, api.Notice(notify.Success("Cuenta creada correctamente")))
}

func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	session, err := c.AuthService.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, session, api.Notice(notify.Success("Sesión iniciada correctamente")))
}

// SignOut revokes the bearer token of the request. Mounted behind RequireAuth.
func (c *AuthController) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := c.AuthService.SignOut(r.Context(), api.Token(r.Context())); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteNotice(w, http.StatusOK, notify.Success("Sesión cerrada correctamente"))
}
