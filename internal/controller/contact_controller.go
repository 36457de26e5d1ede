// internal/controller/contact_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

type ContactController struct {
	ContactService   ContactAPI
	MessagingService MessagingAPI
	Log              *zap.Logger
}

// ListContacts supports ?q= search on name and phone.
func (c *ContactController) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := c.ContactService.ListContacts(r.Context(), api.OwnerID(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, contacts, nil)
}

func (c *ContactController) CreateContact(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, service.CreateMode())
}

func (c *ContactController) UpdateContact(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, service.EditMode(chi.URLParam(r, "id")))
}

func (c *ContactController) save(w http.ResponseWriter, r *http.Request, mode service.SaveMode) {
	failure, success, status := "Error al guardar el contacto", "Contacto guardado correctamente", http.StatusCreated
	if mode.IsEdit() {
		failure, success, status = "Error al actualizar el contacto", "Contacto actualizado correctamente", http.StatusOK
	}

	var body service.ContactInput
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, failure)
		return
	}

	contact, err := c.ContactService.SaveContact(r.Context(), api.OwnerID(r.Context()), mode, body)
	if err != nil {
		api.WriteError(w, c.Log, err, failure)
		return
	}
	api.WriteData(w, status, contact, api.Notice(notify.Success(success)))
}

func (c *ContactController) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := c.ContactService.DeleteContact(r.Context(), api.OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		api.WriteError(w, c.Log, err, "Error al eliminar el contacto")
		return
	}
	api.WriteNotice(w, http.StatusOK, notify.Success("Contacto eliminado correctamente"))
}

// SendToContact returns the deep link for one contact and logs the send.
func (c *ContactController) SendToContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TemplateID string `json:"template_id"`
	}
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	link, err := c.MessagingService.SendToContact(r.Context(), api.OwnerID(r.Context()), chi.URLParam(r, "id"), body.TemplateID)
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, link, api.Notice(notify.Success("Enlace de WhatsApp generado para "+link.Contact.Name)))
}
