// internal/model/message.go
package model

import "time"

const MessageStatusSent = "sent"

// Message is a best-effort send-log record. Nothing is delivered; it only feeds statistics.
type Message struct {
	ID         string    `db:"id" json:"id"`
	OwnerID    string    `db:"owner_id" json:"owner_id"`
	ContactID  string    `db:"contact_id" json:"contact_id"`
	TemplateID string    `db:"template_id" json:"template_id"`
	CampaignID *string   `db:"campaign_id" json:"campaign_id,omitempty"`
	Status     string    `db:"status" json:"status"`
	SentAt     time.Time `db:"sent_at" json:"sent_at"`
}
