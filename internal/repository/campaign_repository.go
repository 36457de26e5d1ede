package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *model.Campaign) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Campaign, error)
	ListCampaigns(ctx context.Context, ownerID string, offset, limit int, status string) ([]*model.Campaign, int, error)
	Delete(ctx context.Context, ownerID, id string) error

	// Lifecycle writes
	UpdateStatus(ctx context.Context, ownerID, id, status string) error
	MarkStarted(ctx context.Context, ownerID, id string, at time.Time) error
	UpdateProgress(ctx context.Context, ownerID, id string, progress int) error
	MarkCompleted(ctx context.Context, ownerID, id string, at time.Time) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, owner_id, name, template_id, selection_mode, contact_group, contact_ids,
        contacts_count, status, progress, schedule, scheduled_at, created_at, started_at, completed_at, updated_at`

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(ctx context.Context, c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.Status == "" {
		c.Status = model.StatusScheduled
	}
	query := `
        INSERT INTO campaigns (id, owner_id, name, template_id, selection_mode, contact_group, contact_ids,
            contacts_count, status, progress, schedule, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `
	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Name, c.TemplateID, c.SelectionMode, c.ContactGroup, pq.Array(c.ContactIDs),
		c.ContactsCount, c.Status, c.Progress, c.Schedule, c.ScheduledAt, c.CreatedAt,
	)
	return err
}

func (r *CampaignRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1 AND owner_id=$2`
	c, err := scanCampaign(r.DB.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// ListCampaigns returns one page of the owner's campaigns plus the total matching count.
func (r *CampaignRepository) ListCampaigns(ctx context.Context, ownerID string, offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner_id=$1`
	args := []interface{}{ownerID}
	argPos := 2

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Count total
	countQuery := `SELECT COUNT(*) FROM campaigns WHERE owner_id=$1`
	argsCount := []interface{}{ownerID}
	if status != "" {
		countQuery += " AND status=$2"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

func (r *CampaignRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM campaigns WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return affectedOne(res, err, "campaign", id)
}

// ====================== Lifecycle ======================

func (r *CampaignRepository) UpdateStatus(ctx context.Context, ownerID, id, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=$2 WHERE id=$3 AND owner_id=$4`
	res, err := r.DB.ExecContext(ctx, query, status, time.Now(), id, ownerID)
	return affectedOne(res, err, "campaign", id)
}

func (r *CampaignRepository) MarkStarted(ctx context.Context, ownerID, id string, at time.Time) error {
	query := `UPDATE campaigns SET status=$1, started_at=$2, updated_at=$2 WHERE id=$3 AND owner_id=$4`
	res, err := r.DB.ExecContext(ctx, query, model.StatusActive, at, id, ownerID)
	return affectedOne(res, err, "campaign", id)
}

func (r *CampaignRepository) UpdateProgress(ctx context.Context, ownerID, id string, progress int) error {
	query := `UPDATE campaigns SET progress=$1, updated_at=$2 WHERE id=$3 AND owner_id=$4`
	res, err := r.DB.ExecContext(ctx, query, progress, time.Now(), id, ownerID)
	return affectedOne(res, err, "campaign", id)
}

// MarkCompleted clamps progress to 100 and closes the campaign in a single write.
func (r *CampaignRepository) MarkCompleted(ctx context.Context, ownerID, id string, at time.Time) error {
	query := `UPDATE campaigns SET status=$1, progress=100, completed_at=$2, updated_at=$2 WHERE id=$3 AND owner_id=$4`
	res, err := r.DB.ExecContext(ctx, query, model.StatusCompleted, at, id, ownerID)
	return affectedOne(res, err, "campaign", id)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.TemplateID, &c.SelectionMode, &c.ContactGroup, pq.Array(&c.ContactIDs),
		&c.ContactsCount, &c.Status, &c.Progress, &c.Schedule, &c.ScheduledAt, &c.CreatedAt,
		&c.StartedAt, &c.CompletedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.ContactIDs == nil {
		c.ContactIDs = []string{}
	}
	return &c, nil
}

// affectedOne turns a zero-row UPDATE/DELETE into a NotFoundError.
func affectedOne(res sql.Result, err error, entity, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return appErrors.NewNotFound(entity, id)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
