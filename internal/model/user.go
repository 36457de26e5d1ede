// internal/model/user.go
package model

import "time"

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Disabled     bool      `db:"disabled" json:"disabled"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated owner attached to a request or delivered to auth listeners.
type Identity struct {
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	TokenID string `json:"-"`
}
