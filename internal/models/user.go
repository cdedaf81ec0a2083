package models

import "time"

// User is an identity record. Username carries the signup-time metadata and
// may be empty; the app-local display name lives on Profile.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Username     string    `gorm:"size:100" json:"username,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
