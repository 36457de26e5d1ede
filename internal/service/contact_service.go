// internal/service/contact_service.go
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

type ContactService struct {
	ContactRepo repository.ContactRepositoryInterface
	Sessions    SnapshotSource
	Log         *zap.Logger

	validate *validator.Validate
}

type ContactInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
	Group string `json:"group"`
	Notes string `json:"notes"`
}

func NewContactService(repo repository.ContactRepositoryInterface, sessions SnapshotSource, log *zap.Logger) *ContactService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContactService{
		ContactRepo: repo,
		Sessions:    sessions,
		Log:         log,
		validate:    newValidator(),
	}
}

// SaveContact creates or edits a contact depending on mode. The phone rule applies on every
// write; stored records are never re-validated on read.
func (s *ContactService) SaveContact(ctx context.Context, ownerID string, mode SaveMode, in ContactInput) (*model.Contact, error) {
	if err := mode.check(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	c := &model.Contact{
		OwnerID: ownerID,
		Name:    in.Name,
		Phone:   in.Phone,
		Group:   in.Group,
		Notes:   strings.TrimSpace(in.Notes),
	}

	var err error
	if mode.IsEdit() {
		c.ID = mode.ID
		err = s.ContactRepo.Update(ctx, c)
	} else {
		c.ID = uuid.NewString()
		err = s.ContactRepo.Create(ctx, c)
	}
	if err != nil {
		s.Log.Error("❌ failed to save contact", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, appErrors.NewBackend("contact.save", "Error al guardar el contacto", err)
	}

	s.Sessions.Invalidate(ctx, ownerID)
	return c, nil
}

// DeleteContact removes a contact. Campaign id snapshots are left untouched.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, id string) error {
	if err := s.ContactRepo.Delete(ctx, ownerID, id); err != nil {
		return appErrors.NewBackend("contact.delete", "Error al eliminar el contacto", err)
	}
	s.Sessions.Invalidate(ctx, ownerID)
	return nil
}

// ListContacts returns the owner's contacts, filtered by query when it is not blank.
func (s *ContactService) ListContacts(ctx context.Context, ownerID, query string) ([]model.Contact, error) {
	snap, err := s.Sessions.Load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return SearchContacts(snap.Contacts, query), nil
}

// SearchContacts keeps contacts whose name contains query (case-insensitive) or whose phone
// contains it.
func SearchContacts(contacts []model.Contact, query string) []model.Contact {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return contacts
	}
	out := []model.Contact{}
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, q) {
			out = append(out, c)
		}
	}
	return out
}
