// internal/service/messaging_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/metrics"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/queue"
)

// MessagingService produces deep links outside the campaign lifecycle: ad-hoc batches,
// single sends and test messages.
type MessagingService struct {
	Sessions  SnapshotSource
	Renderer  *Renderer
	Queue     queue.Queue
	TestPhone string
	Log       *zap.Logger
}

// LinkRequest selects a template and recipients for an ad-hoc batch.
type LinkRequest struct {
	TemplateID    string   `json:"template_id"`
	SelectionMode string   `json:"selection_mode"`
	Group         string   `json:"group"`
	ContactIDs    []string `json:"contact_ids"`
}

// TestMessage is a preview-bound message addressed to the fixed test phone.
type TestMessage struct {
	Template model.Template `json:"template"`
	Phone    string         `json:"phone"`
	Message  string         `json:"message"`
	URL      string         `json:"url"`
}

func (s *MessagingService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// GenerateLinks resolves recipients and renders one link each. Manual selection is allowed
// here since nothing is persisted.
func (s *MessagingService) GenerateLinks(ctx context.Context, ownerID string, req LinkRequest) ([]Link, error) {
	if req.TemplateID == "" {
		return nil, appErrors.ErrTemplateRequired
	}
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Template(req.TemplateID)
	if !ok {
		return nil, appErrors.NewNotFound("template", req.TemplateID)
	}

	recipients := ResolveRecipients(req.SelectionMode, SelectionParams{
		Group:      req.Group,
		ContactIDs: req.ContactIDs,
	}, snap.Contacts)
	return s.Renderer.GenerateBatch(t, recipients), nil
}

// SendToContact renders templateID for one contact and logs the send. The send-log is best
// effort: a queue failure is logged and the link is still returned.
func (s *MessagingService) SendToContact(ctx context.Context, ownerID, contactID, templateID string) (*Link, error) {
	if templateID == "" {
		return nil, appErrors.ErrTemplateRequired
	}
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	contact, ok := snap.Contact(contactID)
	if !ok {
		return nil, appErrors.NewNotFound("contact", contactID)
	}
	t, ok := snap.Template(templateID)
	if !ok {
		return nil, appErrors.NewNotFound("template", templateID)
	}

	text := Render(t.Body, s.Renderer.BindingsFor(contact))
	link := &Link{
		Contact: contact,
		Message: text,
		URL:     s.Renderer.BuildDeepLink(contact.Phone, text),
	}
	metrics.LinksGenerated.WithLabelValues("single").Inc()

	msg := &model.Message{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		ContactID:  contact.ID,
		TemplateID: t.ID,
		Status:     model.MessageStatusSent,
		SentAt:     time.Now(),
	}
	if s.Queue != nil {
		if err := s.Queue.Publish(queue.TopicMessageSends, msg); err != nil {
			s.logger().Warn("⚠️ failed to enqueue send-log", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}
	return link, nil
}

// SendTestMessage renders the newest template with example values for the test phone.
func (s *MessagingService) SendTestMessage(ctx context.Context, ownerID string) (*TestMessage, error) {
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(snap.Templates) == 0 {
		return nil, appErrors.NewValidation("templates", "Primero crea una plantilla para enviar mensajes")
	}

	t := snap.Templates[0]
	text := Render(t.Body, s.Renderer.PreviewBindings())
	metrics.LinksGenerated.WithLabelValues("test").Inc()
	return &TestMessage{
		Template: t,
		Phone:    s.TestPhone,
		Message:  text,
		URL:      s.Renderer.BuildDeepLink(s.TestPhone, text),
	}, nil
}
