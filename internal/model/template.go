// internal/model/template.go
package model

import "time"

// Template categories offered by the console. Any other non-empty value is kept as-is.
const (
	CategoryPromotion = "promotion"
	CategoryReminder  = "reminder"
	CategoryWelcome   = "welcome"
	CategoryFollowup  = "followup"
	CategoryGeneral   = "general"
)

var categoryLabels = map[string]string{
	CategoryPromotion: "Promoción",
	CategoryReminder:  "Recordatorio",
	CategoryWelcome:   "Bienvenida",
	CategoryFollowup:  "Seguimiento",
	CategoryGeneral:   "General",
}

// CategoryLabel returns the display name of a category, or the raw value when unknown.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}

type Template struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"owner_id"`
	Name      string    `db:"name" json:"name"`
	Category  string    `db:"category" json:"category"`
	Body      string    `db:"body" json:"content"`
	ImageURL  string    `db:"image_url" json:"image,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
