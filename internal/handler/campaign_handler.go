// internal/handler/campaign_handler.go
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/service"
)

// CampaignReader is the read side of the campaign service.
type CampaignReader interface {
	GetCampaignDetails(ctx context.Context, ownerID, id string) (*service.CampaignDetails, error)
	CampaignLinks(ctx context.Context, ownerID, id string) ([]service.Link, error)
}

// CampaignHandler holds the dependencies for campaign read views
type CampaignHandler struct {
	Service CampaignReader
	Log     *zap.Logger
}

// NewCampaignHandler creates a new CampaignHandler with the given service
func NewCampaignHandler(svc CampaignReader, log *zap.Logger) *CampaignHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CampaignHandler{Service: svc, Log: log}
}

// GetCampaignHandler returns the campaign with its template name and contact list.
func (h *CampaignHandler) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.Log.Debug("📥 campaign details requested", zap.String("campaign_id", id))

	details, err := h.Service.GetCampaignDetails(r.Context(), api.OwnerID(r.Context()), id)
	if err != nil {
		api.WriteError(w, h.Log, err, "Error al cargar la campaña")
		return
	}

	api.WriteData(w, http.StatusOK, details, nil)
}

// GetCampaignLinksHandler renders one deep link per recipient of the campaign.
func (h *CampaignHandler) GetCampaignLinksHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	links, err := h.Service.CampaignLinks(r.Context(), api.OwnerID(r.Context()), id)
	if err != nil {
		api.WriteError(w, h.Log, err, "Error al cargar la campaña")
		return
	}

	h.Log.Debug("✅ campaign links rendered", zap.String("campaign_id", id), zap.Int("links", len(links)))
	api.WriteData(w, http.StatusOK, links, nil)
}
