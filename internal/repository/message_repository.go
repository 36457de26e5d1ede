package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/unclebandit/walink-backend/internal/model"
)

// MessageRepositoryInterface is the send-log store.
type MessageRepositoryInterface interface {
	Create(ctx context.Context, msg *model.Message) error
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

type MessageRepository struct {
	DB *sql.DB
}

// Create inserts a send-log record. Replays of the same id are ignored so a redelivered
// queue job does not double count.
func (r *MessageRepository) Create(ctx context.Context, msg *model.Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	if msg.Status == "" {
		msg.Status = model.MessageStatusSent
	}

	query := `
        INSERT INTO messages (id, owner_id, contact_id, template_id, campaign_id, status, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING
    `
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID, msg.OwnerID, msg.ContactID, msg.TemplateID, msg.CampaignID, msg.Status, msg.SentAt,
	)
	return err
}

func (r *MessageRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
