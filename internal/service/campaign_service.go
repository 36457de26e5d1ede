// internal/service/campaign_service.go
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/metrics"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
)

// TemplateNotFoundLabel is shown in place of the name of a deleted template.
const TemplateNotFoundLabel = "Plantilla no encontrada"

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Sessions     SnapshotSource
	Progress     *ProgressSimulator
	Renderer     *Renderer
	Log          *zap.Logger
	Now          func() time.Time
}

// CreateCampaignInput is the creation request.
type CreateCampaignInput struct {
	Name          string     `json:"name"`
	TemplateID    string     `json:"template_id"`
	SelectionMode string     `json:"selection_mode"`
	ContactGroup  string     `json:"contact_group"`
	ContactIDs    []string   `json:"contact_ids"`
	Schedule      string     `json:"schedule"`
	ScheduledAt   *time.Time `json:"scheduled_at"`
}

type CampaignDetails struct {
	Campaign      model.Campaign  `json:"campaign"`
	StatusLabel   string          `json:"status_label"`
	TemplateName  string          `json:"template_name"`
	Contacts      []model.Contact `json:"contacts"`
	ContactsCount int             `json:"contacts_count"`
}

func (s *CampaignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CampaignService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// CreateCampaign validates the request, snapshots the resolved recipients and persists a
// scheduled campaign. Nothing is written when validation fails.
func (s *CampaignService) CreateCampaign(ctx context.Context, ownerID string, in CreateCampaignInput) (*model.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, appErrors.NewValidation("name", "El nombre de la campaña es obligatorio")
	}
	if in.TemplateID == "" {
		return nil, appErrors.ErrTemplateRequired
	}
	if in.SelectionMode == model.SelectManual {
		return nil, appErrors.ErrManualSelectionUnsupported
	}

	schedule := in.Schedule
	if schedule == "" {
		schedule = model.ScheduleNow
	}
	var scheduledAt *time.Time
	switch schedule {
	case model.ScheduleNow:
	case model.ScheduleLater:
		if in.ScheduledAt == nil || !in.ScheduledAt.After(s.now()) {
			return nil, appErrors.ErrScheduleInPast
		}
		t := *in.ScheduledAt
		scheduledAt = &t
	default:
		return nil, appErrors.NewValidation("schedule", "Programación inválida")
	}

	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Template(in.TemplateID); !ok {
		return nil, appErrors.NewNotFound("template", in.TemplateID)
	}

	recipients := ResolveRecipients(in.SelectionMode, SelectionParams{
		Group:      in.ContactGroup,
		ContactIDs: in.ContactIDs,
	}, snap.Contacts)
	if len(recipients) == 0 {
		return nil, appErrors.ErrEmptyRecipients
	}

	c := &model.Campaign{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		Name:          name,
		TemplateID:    in.TemplateID,
		SelectionMode: in.SelectionMode,
		ContactGroup:  in.ContactGroup,
		ContactIDs:    contactIDs(recipients),
		ContactsCount: len(recipients),
		Status:        model.StatusScheduled,
		Progress:      0,
		Schedule:      schedule,
		ScheduledAt:   scheduledAt,
		CreatedAt:     s.now(),
	}
	if c.SelectionMode != model.SelectGroup {
		c.ContactGroup = ""
	}

	if err := s.CampaignRepo.Create(ctx, c); err != nil {
		s.logger().Error("❌ failed to create campaign", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, appErrors.NewBackend("campaign.create", "Error al crear la campaña", err)
	}
	s.Sessions.Invalidate(ctx, ownerID)
	metrics.CampaignsCreated.WithLabelValues(c.SelectionMode).Inc()

	s.logger().Info("📣 campaign created",
		zap.String("campaign_id", c.ID),
		zap.String("owner_id", ownerID),
		zap.Int("contacts", c.ContactsCount))
	return c, nil
}

// StartCampaign moves a scheduled or paused campaign to active and hands it to the progress
// driver.
func (s *CampaignService) StartCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, appErrors.NewBackend("campaign.get", "Error al iniciar la campaña", err)
	}
	if !c.CanStart() {
		return nil, appErrors.ErrInvalidTransition
	}

	at := s.now()
	if err := s.CampaignRepo.MarkStarted(ctx, ownerID, id, at); err != nil {
		s.logger().Error("❌ failed to start campaign", zap.String("campaign_id", id), zap.Error(err))
		return nil, appErrors.NewBackend("campaign.start", "Error al iniciar la campaña", err)
	}
	c.Status = model.StatusActive
	c.StartedAt = &at
	s.Sessions.Invalidate(ctx, ownerID)
	metrics.CampaignTransitions.WithLabelValues(model.StatusActive).Inc()

	s.Progress.Start(*c)
	return c, nil
}

// ToggleCampaign pauses an active campaign or resumes a paused one. Pausing cancels the
// driver; resuming starts a new one from the persisted progress.
func (s *CampaignService) ToggleCampaign(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, appErrors.NewBackend("campaign.get", "Error al actualizar la campaña", err)
	}
	if !c.CanToggle() {
		return nil, appErrors.ErrInvalidTransition
	}

	next := model.StatusPaused
	if c.Status == model.StatusPaused {
		next = model.StatusActive
	}
	if err := s.CampaignRepo.UpdateStatus(ctx, ownerID, id, next); err != nil {
		s.logger().Error("❌ failed to toggle campaign", zap.String("campaign_id", id), zap.Error(err))
		return nil, appErrors.NewBackend("campaign.toggle", "Error al actualizar la campaña", err)
	}
	c.Status = next
	s.Sessions.Invalidate(ctx, ownerID)
	metrics.CampaignTransitions.WithLabelValues(next).Inc()

	if next == model.StatusPaused {
		s.Progress.Cancel(id)
	} else {
		s.Progress.Start(*c)
	}
	return c, nil
}

// DeleteCampaign removes the campaign and stops its driver. Confirmation is the caller's job.
func (s *CampaignService) DeleteCampaign(ctx context.Context, ownerID, id string) error {
	if err := s.CampaignRepo.Delete(ctx, ownerID, id); err != nil {
		return appErrors.NewBackend("campaign.delete", "Error al eliminar la campaña", err)
	}
	s.Progress.Cancel(id)
	s.Sessions.Invalidate(ctx, ownerID)
	s.logger().Info("🗑️ campaign deleted", zap.String("campaign_id", id), zap.String("owner_id", ownerID))
	return nil
}

// ListCampaigns fetches campaigns with pagination
func (s *CampaignService) ListCampaigns(ctx context.Context, ownerID string, page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(ctx, ownerID, offset, pageSize, status)
	if err != nil {
		return nil, nil, appErrors.NewBackend("campaign.list", "Error al cargar las campañas", err)
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetails returns the campaign with its template name and current contact list.
// Contacts deleted since creation are skipped; the stored count is kept as is.
func (s *CampaignService) GetCampaignDetails(ctx context.Context, ownerID, id string) (*CampaignDetails, error) {
	c, err := s.CampaignRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, appErrors.NewBackend("campaign.get", "Error al cargar la campaña", err)
	}
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := &CampaignDetails{
		Campaign:      *c,
		StatusLabel:   model.StatusLabel(c.Status),
		TemplateName:  TemplateNotFoundLabel,
		Contacts:      campaignContacts(c, snap),
		ContactsCount: c.ContactsCount,
	}
	if t, ok := snap.Template(c.TemplateID); ok {
		details.TemplateName = t.Name
	}
	return details, nil
}

// CampaignLinks renders one deep link per recipient of the campaign's snapshot.
func (s *CampaignService) CampaignLinks(ctx context.Context, ownerID, id string) ([]Link, error) {
	c, err := s.CampaignRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, appErrors.NewBackend("campaign.get", "Error al cargar la campaña", err)
	}
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Template(c.TemplateID)
	if !ok {
		return nil, appErrors.NewNotFound("template", c.TemplateID)
	}
	return s.Renderer.GenerateBatch(t, campaignContacts(c, snap)), nil
}

// campaignContacts maps the stored id snapshot onto live contacts. Records created without
// an id snapshot fall back to the group, or to everyone for "all".
func campaignContacts(c *model.Campaign, snap *Snapshot) []model.Contact {
	if len(c.ContactIDs) > 0 {
		out := make([]model.Contact, 0, len(c.ContactIDs))
		for _, id := range c.ContactIDs {
			if contact, ok := snap.Contact(id); ok {
				out = append(out, contact)
			}
		}
		return out
	}
	if c.SelectionMode == model.SelectAll {
		return ResolveRecipients(model.SelectAll, SelectionParams{}, snap.Contacts)
	}
	return ResolveRecipients(model.SelectGroup, SelectionParams{Group: c.ContactGroup}, snap.Contacts)
}

// Shutdown stops every progress driver.
func (s *CampaignService) Shutdown() {
	if s.Progress != nil {
		s.Progress.Shutdown()
	}
}
