// internal/model/campaign.go
package model

import "time"

// Campaign statuses. Cancelled is a display-only value kept for records written by older
// clients; no operation produces it.
const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var statusLabels = map[string]string{
	StatusScheduled: "Programada",
	StatusActive:    "Activa",
	StatusPaused:    "Pausada",
	StatusCompleted: "Completada",
	StatusCancelled: "Cancelada",
}

// StatusLabel returns the display name of a status, or the raw value when unknown.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Recipient selection modes.
const (
	SelectAll    = "all"
	SelectGroup  = "group"
	SelectManual = "manual"
)

// Schedule kinds.
const (
	ScheduleNow   = "now"
	ScheduleLater = "later"
)

type Campaign struct {
	ID            string     `db:"id" json:"id"`
	OwnerID       string     `db:"owner_id" json:"owner_id"`
	Name          string     `db:"name" json:"name"`
	TemplateID    string     `db:"template_id" json:"template_id"`
	SelectionMode string     `db:"selection_mode" json:"selection_mode"`
	ContactGroup  string     `db:"contact_group" json:"contact_group,omitempty"`
	ContactIDs    []string   `db:"contact_ids" json:"contact_ids"`
	ContactsCount int        `db:"contacts_count" json:"contacts_count"`
	Status        string     `db:"status" json:"status"`
	Progress      int        `db:"progress" json:"progress"`
	Schedule      string     `db:"schedule" json:"schedule"`
	ScheduledAt   *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	StartedAt     *time.Time `db:"started_at" json:"started_at,omitempty"`
	CompletedAt   *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CanStart reports whether Start is allowed from the current status.
func (c *Campaign) CanStart() bool {
	return c.Status == StatusScheduled || c.Status == StatusPaused
}

// CanToggle reports whether pause/resume is allowed from the current status.
func (c *Campaign) CanToggle() bool {
	return c.Status == StatusActive || c.Status == StatusPaused
}
