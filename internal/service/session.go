// internal/service/session.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
	"github.com/unclebandit/walink-backend/internal/repository"
)

const (
	snapshotPrefix   = "snapshot:"
	generationPrefix = "snapshot-gen:"
)

// Snapshot is the owner's data as of one load. It is never mutated after Load returns;
// every reload produces a new value. Slices are ordered newest first.
type Snapshot struct {
	OwnerID   string           `json:"owner_id"`
	Templates []model.Template `json:"templates"`
	Contacts  []model.Contact  `json:"contacts"`
	Campaigns []model.Campaign `json:"campaigns"`
	LoadedAt  time.Time        `json:"loaded_at"`
}

// Template looks a template up by id.
func (s *Snapshot) Template(id string) (model.Template, bool) {
	for _, t := range s.Templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.Template{}, false
}

// Contact looks a contact up by id.
func (s *Snapshot) Contact(id string) (model.Contact, bool) {
	for _, c := range s.Contacts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contact{}, false
}

// SnapshotSource is what services need from the session state.
type SnapshotSource interface {
	Load(ctx context.Context, ownerID string) (*Snapshot, error)
	Invalidate(ctx context.Context, ownerID string)
}

// SessionStore builds owner snapshots from the repositories and caches them in Redis.
// A nil Redis client disables caching.
type SessionStore struct {
	TemplateRepo repository.TemplateRepositoryInterface
	ContactRepo  repository.ContactRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Redis        *redis.Client
	TTL          time.Duration
	Log          *zap.Logger
}

func snapshotKey(ownerID string) string { return snapshotPrefix + ownerID }

func generationKey(ownerID string) string { return generationPrefix + ownerID }

// Load returns the cached snapshot or reads a fresh one from storage. A fresh read is only
// cached if no Invalidate ran for the owner while it was in flight.
func (s *SessionStore) Load(ctx context.Context, ownerID string) (*Snapshot, error) {
	if snap := s.cached(ctx, ownerID); snap != nil {
		return snap, nil
	}
	gen, cacheable := s.generation(ctx, ownerID)

	templates, err := s.TemplateRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.NewBackend("session.templates", "Error al cargar las plantillas", err)
	}
	contacts, err := s.ContactRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.NewBackend("session.contacts", "Error al cargar los contactos", err)
	}
	campaigns, err := s.CampaignRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.NewBackend("session.campaigns", "Error al cargar las campañas", err)
	}

	snap := &Snapshot{
		OwnerID:   ownerID,
		Templates: templates,
		Contacts:  contacts,
		Campaigns: campaigns,
		LoadedAt:  time.Now(),
	}
	if cacheable {
		s.store(ctx, snap, gen)
	}
	return snap, nil
}

func (s *SessionStore) cached(ctx context.Context, ownerID string) *Snapshot {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(ctx, snapshotKey(ownerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger().Warn("⚠️ snapshot cache read failed", zap.String("owner_id", ownerID), zap.Error(err))
		}
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger().Warn("⚠️ corrupt snapshot in cache", zap.String("owner_id", ownerID), zap.Error(err))
		return nil
	}
	return &snap
}

// generation reads the owner's invalidation counter. A missing counter is generation 0.
func (s *SessionStore) generation(ctx context.Context, ownerID string) (int64, bool) {
	if s.Redis == nil {
		return 0, false
	}
	gen, err := s.Redis.Get(ctx, generationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		s.logger().Warn("⚠️ snapshot generation read failed", zap.String("owner_id", ownerID), zap.Error(err))
		return 0, false
	}
	return gen, true
}

// store writes snap only while the owner's generation still equals gen.
func (s *SessionStore) store(ctx context.Context, snap *Snapshot, gen int64) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	genKey := generationKey(snap.OwnerID)
	err = s.Redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, snapshotKey(snap.OwnerID), raw, s.TTL)
			return nil
		})
		return err
	}, genKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		s.logger().Debug("snapshot invalidated during load, not cached", zap.String("owner_id", snap.OwnerID))
	case err != nil:
		s.logger().Warn("⚠️ snapshot cache write failed", zap.String("owner_id", snap.OwnerID), zap.Error(err))
	}
}

// Invalidate drops the cached snapshot so the next Load reads storage, and bumps the owner's
// generation so loads already in flight do not cache what they read.
func (s *SessionStore) Invalidate(ctx context.Context, ownerID string) {
	if s.Redis == nil {
		return
	}
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(ownerID))
		pipe.Del(ctx, snapshotKey(ownerID))
		return nil
	})
	if err != nil {
		s.logger().Warn("⚠️ snapshot invalidation failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

// OnIdentityChange is registered with AuthService.Subscribe. Any sign-in or sign-out starts
// the owner from a fresh load.
func (s *SessionStore) OnIdentityChange(ownerID string, identity *model.Identity) {
	s.Invalidate(context.Background(), ownerID)
}

func (s *SessionStore) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

var _ SnapshotSource = (*SessionStore)(nil)
