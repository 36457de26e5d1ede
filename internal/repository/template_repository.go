package repository

import (
	"context"
	"database/sql"
	"time"

	appErrors "github.com/unclebandit/walink-backend/internal/errors"
	"github.com/unclebandit/walink-backend/internal/model"
)

type TemplateRepositoryInterface interface {
	Create(ctx context.Context, t *model.Template) error
	Update(ctx context.Context, t *model.Template) error
	Delete(ctx context.Context, ownerID, id string) error
	GetByID(ctx context.Context, ownerID, id string) (*model.Template, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Template, error)
}

type TemplateRepository struct {
	DB *sql.DB
}

func (r *TemplateRepository) Create(ctx context.Context, t *model.Template) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `
        INSERT INTO templates (id, owner_id, name, category, body, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `
	_, err := r.DB.ExecContext(ctx, query, t.ID, t.OwnerID, t.Name, t.Category, t.Body, t.ImageURL, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *TemplateRepository) Update(ctx context.Context, t *model.Template) error {
	t.UpdatedAt = time.Now()
	query := `
        UPDATE templates
        SET name=$1, category=$2, body=$3, image_url=$4, updated_at=$5
        WHERE id=$6 AND owner_id=$7
    `
	res, err := r.DB.ExecContext(ctx, query, t.Name, t.Category, t.Body, t.ImageURL, t.UpdatedAt, t.ID, t.OwnerID)
	return affectedOne(res, err, "template", t.ID)
}

// Delete removes the template only; campaigns that reference it keep their snapshot.
func (r *TemplateRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM templates WHERE id=$1 AND owner_id=$2`, id, ownerID)
	return affectedOne(res, err, "template", id)
}

func (r *TemplateRepository) GetByID(ctx context.Context, ownerID, id string) (*model.Template, error) {
	query := `
        SELECT id, owner_id, name, category, body, image_url, created_at, updated_at
        FROM templates WHERE id=$1 AND owner_id=$2
    `
	var t model.Template
	err := r.DB.QueryRowContext(ctx, query, id, ownerID).Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Category, &t.Body, &t.ImageURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewNotFound("template", id)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TemplateRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Template, error) {
	query := `
        SELECT id, owner_id, name, category, body, image_url, created_at, updated_at
        FROM templates WHERE owner_id=$1
        ORDER BY created_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []model.Template{}
	for rows.Next() {
		var t model.Template
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Category, &t.Body, &t.ImageURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

var _ TemplateRepositoryInterface = (*TemplateRepository)(nil)
