package repository

import (
	"context"
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
)

// ContactRepositoryInterface defines methods used by service
type ContactRepositoryInterface interface {
	Create(ctx context.Context, c *model.Contact) error
	Update(ctx context.Context, c *model.Contact) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error)
}

// ContactRepository is the concrete implementation
type ContactRepository struct {
	DB *sql.DB
}

func (r *ContactRepository) Create(ctx context.Context, c *model.Contact) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
        INSERT INTO contacts (id, owner_id, name, phone, contact_group, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query, c.ID, c.OwnerID, c.Name, c.Phone, c.Group, c.Notes, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *ContactRepository) Update(ctx context.Context, c *model.Contact) error {
	c.UpdatedAt = time.Now()
	query := `
        UPDATE contacts
        SET name=$1, phone=$2, contact_group=$3, notes=$4, updated_at=$5
        WHERE id=$6 AND owner_id=$7
    `
	res, err := r.DB.ExecContext(ctx, query, c.Name, c.Phone, c.Group, c.Notes, c.UpdatedAt, c.ID, c.OwnerID)
	return affectedOne(res, err, "contact", c.ID)
}

func (r *ContactRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return affectedOne(res, err, "contact", id)
}

// GetByID fetches a contact by ID
func (r *ContactRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	query := `
        SELECT id, owner_id, name, phone, contact_group, notes, created_at, updated_at
        FROM contacts
        WHERE id = $1 AND owner_id = $2
    `
	var c model.Contact
	err := r.DB.QueryRowContext(ctx, query, id, ownerID).Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Group, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("contact", id)
		}
		return nil, err
	}
	return &c, nil
}

// ListByOwner fetches every contact of the owner, newest first. This order is the master
// order recipient resolution preserves.
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Contact, error) {
	query := `
        SELECT id, owner_id, name, phone, contact_group, notes, created_at, updated_at
        FROM contacts
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Phone, &c.Group, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

var _ ContactRepositoryInterface = (*ContactRepository)(nil)
