// internal/controller/template_controller.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

type TemplateController struct {
	TemplateService TemplateAPI
	Log             *zap.Logger
}

func (c *TemplateController) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := c.TemplateService.ListTemplates(r.Context(), api.OwnerID(r.Context()))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, templates, nil)
}

func (c *TemplateController) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, service.CreateMode())
}

func (c *TemplateController) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	c.save(w, r, service.EditMode(chi.URLParam(r, "id")))
}

func (c *TemplateController) save(w http.ResponseWriter, r *http.Request, mode service.SaveMode) {
	failure, success, status := "Error al guardar la plantilla", "Plantilla guardada correctamente", http.StatusCreated
	if mode.IsEdit() {
		failure, success, status = "Error al actualizar la plantilla", "Plantilla actualizada correctamente", http.StatusOK
	}

	var body service.TemplateInput
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, failure)
		return
	}

	tmpl, err := c.TemplateService.SaveTemplate(r.Context(), api.OwnerID(r.Context()), mode, body)
	if err != nil {
		api.WriteError(w, c.Log, err, failure)
		return
	}
	api.WriteData(w, status, tmpl, api.Notice(notify.Success(success)))
}

func (c *TemplateController) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := c.TemplateService.DeleteTemplate(r.Context(), api.OwnerID(r.Context()), chi.URLParam(r, "id")); err != nil {
		api.WriteError(w, c.Log, err, "Error al eliminar la plantilla")
		return
	}
	api.WriteNotice(w, http.StatusOK, notify.Success("Plantilla eliminada correctamente"))
}

// PreviewTemplate returns the raw body, its compose link and the example rendering.
func (c *TemplateController) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	preview, err := c.TemplateService.PreviewTemplate(r.Context(), api.OwnerID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, preview, nil)
}
