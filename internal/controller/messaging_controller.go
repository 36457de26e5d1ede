// internal/controller/messaging_controller.go
package controller

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

type MessagingController struct {
	MessagingService MessagingAPI
	StatsService     StatsAPI
	Inbox            Inbox
	Log              *zap.Logger
}

// GenerateLinks renders an ad-hoc batch of deep links. Nothing is persisted.
func (c *MessagingController) GenerateLinks(w http.ResponseWriter, r *http.Request) {
	var body service.LinkRequest
	if err := api.Decode(r, &body); err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}

	links, err := c.MessagingService.GenerateLinks(r.Context(), api.OwnerID(r.Context()), body)
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, links, nil)
}

func (c *MessagingController) SendTestMessage(w http.ResponseWriter, r *http.Request) {
	msg, err := c.MessagingService.SendTestMessage(r.Context(), api.OwnerID(r.Context()))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, msg, api.Notice(notify.Success("Mensaje de prueba generado. Ábrelo en WhatsApp para probarlo.")))
}

func (c *MessagingController) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.StatsService.GetStats(r.Context(), api.OwnerID(r.Context()))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	api.WriteData(w, http.StatusOK, stats, nil)
}

// Notifications drains the caller's inbox, oldest first.
func (c *MessagingController) Notifications(w http.ResponseWriter, r *http.Request) {
	notices, err := c.Inbox.Drain(r.Context(), api.OwnerID(r.Context()))
	if err != nil {
		api.WriteError(w, c.Log, err, "")
		return
	}
	if notices == nil {
		notices = []notify.Notice{}
	}
	api.WriteData(w, http.StatusOK, notices, nil)
}
