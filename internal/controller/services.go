// internal/controller/services.go
package controller

import (
	"context"

	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/notify"
	"github.com/unclebandit/walink-backend/internal/service"
)

type AuthAPI interface {
	SignUp(ctx context.Context, email, password string) (*service.Session, error)
	SignIn(ctx context.Context, email, password string) (*service.Session, error)
	SignOut(ctx context.Context, token string) error
}

type CampaignAPI interface {
	CreateCampaign(ctx context.Context, ownerID string, in service.CreateCampaignInput) (*model.Campaign, error)
	StartCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error)
	ToggleCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error)
	DeleteCampaign(ctx context.Context, ownerID, id string) error
	ListCampaigns(ctx context.Context, ownerID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error)
}

type TemplateAPI interface {
	SaveTemplate(ctx context.Context, ownerID string, mode service.SaveMode, in service.TemplateInput) (*model.Template, error)
	DeleteTemplate(ctx context.Context, ownerID, id string) error
	ListTemplates(ctx context.Context, ownerID string) ([]model.Template, error)
	PreviewTemplate(ctx context.Context, ownerID, id string) (*service.TemplatePreview, error)
}

type ContactAPI interface {
	SaveContact(ctx context.Context, ownerID string, mode service.SaveMode, in service.ContactInput) (*model.Contact, error)
	DeleteContact(ctx context.Context, ownerID, id string) error
	ListContacts(ctx context.Context, ownerID, query string) ([]model.Contact, error)
}

type MessagingAPI interface {
	GenerateLinks(ctx context.Context, ownerID string, req service.LinkRequest) ([]service.Link, error)
	SendToContact(ctx context.Context, ownerID, contactID, templateID string) (*service.Link, error)
	SendTestMessage(ctx context.Context, ownerID string) (*service.TestMessage, error)
}

type StatsAPI interface {
	GetStats(ctx context.Context, ownerID string) (service.Stats, error)
}

// Inbox drains queued notices for an owner.
type Inbox interface {
	Drain(ctx context.Context, ownerID string) ([]notify.Notice, error)
}

var (
	_ AuthAPI      = (*service.AuthService)(nil)
	_ CampaignAPI  = (*service.CampaignService)(nil)
	_ TemplateAPI  = (*service.TemplateService)(nil)
	_ ContactAPI   = (*service.ContactService)(nil)
	_ MessagingAPI = (*service.MessagingService)(nil)
	_ StatsAPI     = (*service.StatsService)(nil)
	_ Inbox        = (*notify.RedisInbox)(nil)
)
