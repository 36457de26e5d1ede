// internal/controller/router.go
package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/walink-backend/internal/api"
	"github.com/unclebandit/walink-backend/internal/handler"
	"github.com/unclebandit/walink-backend/internal/metrics"
)

// Routes groups everything NewRouter mounts.
type Routes struct {
	Auth      *AuthController
	Campaigns *CampaignController
	Templates *TemplateController
	Contacts  *ContactController
	Messaging *MessagingController
	Views     *handler.CampaignHandler

	Authenticator api.Authenticator
	Log           *zap.Logger
}

func NewRouter(rt Routes) chi.Router {
	log := rt.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(api.RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Auth routes
	r.Post("/auth/signup", rt.Auth.SignUp)
	r.Post("/auth/signin", rt.Auth.SignIn)

	r.Group(func(r chi.Router) {
		r.Use(api.RequireAuth(rt.Authenticator, log))

		r.Post("/auth/signout", rt.Auth.SignOut)

		// Template routes
		r.Get("/templates", rt.Templates.ListTemplates)
		r.Post("/templates", rt.Templates.CreateTemplate)
		r.Put("/templates/{id}", rt.Templates.UpdateTemplate)
		r.Delete("/templates/{id}", rt.Templates.DeleteTemplate)
		r.Get("/templates/{id}/preview", rt.Templates.PreviewTemplate)

		// Contact routes
		r.Get("/contacts", rt.Contacts.ListContacts)
		r.Post("/contacts", rt.Contacts.CreateContact)
		r.Put("/contacts/{id}", rt.Contacts.UpdateContact)
		r.Delete("/contacts/{id}", rt.Contacts.DeleteContact)
		r.Post("/contacts/{id}/send", rt.Contacts.SendToContact)

		// Campaign routes
		r.Post("/campaigns", rt.Campaigns.CreateCampaign)
		r.Get("/campaigns", rt.Campaigns.ListCampaigns)
		r.Get("/campaigns/{id}", rt.Views.GetCampaignHandler)
		r.Get("/campaigns/{id}/links", rt.Views.GetCampaignLinksHandler)
		r.Post("/campaigns/{id}/start", rt.Campaigns.StartCampaign)
		r.Post("/campaigns/{id}/toggle", rt.Campaigns.ToggleCampaign)
		r.Delete("/campaigns/{id}", rt.Campaigns.DeleteCampaign)

		r.Post("/links", rt.Messaging.GenerateLinks)
		r.Post("/messages/test", rt.Messaging.SendTestMessage)
		r.Get("/stats", rt.Messaging.GetStats)
		r.Get("/notifications", rt.Messaging.Notifications)
	})

	return r
}
