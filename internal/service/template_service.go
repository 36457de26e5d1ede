// internal/service/template_service.go
package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
)

type TemplateService struct {
	TemplateRepo repository.TemplateRepositoryInterface
	Sessions     SnapshotSource
	Renderer     *Renderer
	Log          *zap.Logger

	validate *validator.Validate
}

type TemplateInput struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Content  string `json:"content" validate:"required"`
	Image    string `json:"image"`
}

// TemplatePreview shows a template both raw and rendered with example values.
type TemplatePreview struct {
	Template      model.Template `json:"template"`
	CategoryLabel string         `json:"category_label"`
	ComposeURL    string         `json:"compose_url"`
	Rendered      string         `json:"rendered"`
	RenderedURL   string         `json:"rendered_url"`
}

func NewTemplateService(repo repository.TemplateRepositoryInterface, sessions SnapshotSource, renderer *Renderer, log *zap.Logger) *TemplateService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TemplateService{
		TemplateRepo: repo,
		Sessions:     sessions,
		Renderer:     renderer,
		Log:          log,
		validate:     newValidator(),
	}
}

// SaveTemplate creates or edits a template depending on mode.
func (s *TemplateService) SaveTemplate(ctx context.Context, ownerID string, mode SaveMode, in TemplateInput) (*model.Template, error) {
	if err := mode.check(); err != nil {
		return nil, err
	}
	body := in.Content
	in.Name = strings.TrimSpace(in.Name)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	if in.Category == "" {
		in.Category = model.CategoryGeneral
	}

	t := &model.Template{
		OwnerID:  ownerID,
		Name:     in.Name,
		Category: in.Category,
		Body:     body,
		ImageURL: strings.TrimSpace(in.Image),
	}

	var err error
	if mode.IsEdit() {
		t.ID = mode.ID
		err = s.TemplateRepo.Update(ctx, t)
	} else {
		t.ID = uuid.NewString()
		err = s.TemplateRepo.Create(ctx, t)
	}
	if err != nil {
		s.Log.Error("❌ failed to save template", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, appErrors.NewBackend("template.save", "Error al guardar la plantilla", err)
	}

	s.Sessions.Invalidate(ctx, ownerID)
	return t, nil
}

// DeleteTemplate removes a template. Campaigns referencing it keep their recipients and show
// the not-found label instead of its name.
func (s *TemplateService) DeleteTemplate(ctx context.Context, ownerID, id string) error {
	if err := s.TemplateRepo.Delete(ctx, ownerID, id); err != nil {
		return appErrors.NewBackend("template.delete", "Error al eliminar la plantilla", err)
	}
	s.Sessions.Invalidate(ctx, ownerID)
	return nil
}

func (s *TemplateService) ListTemplates(ctx context.Context, ownerID string) ([]model.Template, error) {
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return snap.Templates, nil
}

// PreviewTemplate returns the raw compose link and a rendering with example bindings.
func (s *TemplateService) PreviewTemplate(ctx context.Context, ownerID, id string) (*TemplatePreview, error) {
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	t, ok := snap.Template(id)
	if !ok {
		return nil, appErrors.NewNotFound("template", id)
	}

	rendered := Render(t.Body, s.Renderer.PreviewBindings())
	return &TemplatePreview{
		Template:      t,
		CategoryLabel: model.CategoryLabel(t.Category),
		ComposeURL:    s.Renderer.BuildDeepLink("", t.Body),
		Rendered:      rendered,
		RenderedURL:   s.Renderer.BuildDeepLink("", rendered),
	}, nil
}
