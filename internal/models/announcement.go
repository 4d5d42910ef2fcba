package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement is an admin-authored banner shown to recruiters.
type Announcement struct {
	ID uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`

	Title    string `json:"title"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url,omitempty"`
	Active   bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
