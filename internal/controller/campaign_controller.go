// internal/controller/campaign_controller.go
package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

type CampaignController struct {
	CampaignService CampaignAPI
	Log             *zap.Logger
}

func (c *CampaignController) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var body service.CreateCampaignInput
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	campaign, err := c.CampaignService.CreateCampaign(r.Context(), api.OwnerID(r.Context()), body)
	if err != nil {
		api.WriteError(w, c.Log, err, "Error al crear la campaña")
		return
	}

	api.WriteData(w, http.StatusCreated, campaign, api.Notice(notify.Success("Campaña creada correctamente")))
}

func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	status := r.URL.Query().Get("status")

	campaigns, pagination, err := c.CampaignService.ListCampaigns(r.Context(), api.OwnerID(r.Context()), page, pageSize, status)
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	api.WriteJSON(w, http.StatusOK, api.Body{
		Data:       campaigns,
		Pagination: pagination, // page, page_size, total_count, total_pages
	})
}

func (c *CampaignController) StartCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignService.StartCampaign(r.Context(), api.OwnerID(r.Context()), id)
	if err != nil {
		api.WriteError(w, c.Log, err, "Error al iniciar la campaña")
		return
	}

	api.WriteData(w, http.StatusOK, campaign, api.Notice(notify.Success("Campaña iniciada correctamente")))
}

func (c *CampaignController) ToggleCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	campaign, err := c.CampaignService.ToggleCampaign(r.Context(), api.OwnerID(r.Context()), id)
	if err != nil {
		api.WriteError(w, c.Log, err, "Error al actualizar la campaña")
		return
	}

	action := "reanudada"
	if campaign.Status == model.StatusPaused {
		action = "pausada"
	}
	api.WriteData(w, http.StatusOK, campaign, api.Notice(notify.Success("Campaña "+action+" correctamente")))
}

func (c *CampaignController) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := c.CampaignService.DeleteCampaign(r.Context(), api.OwnerID(r.Context()), id); err != nil {
		api.WriteError(w, c.Log, err, "Error al eliminar la campaña")
		return
	}

	api.WriteNotice(w, http.StatusOK, notify.Success("Campaña eliminada correctamente"))
}
