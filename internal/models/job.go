package models

import (
	"time"

	"github.com/google/uuid"
)

// Job represents a job opening owned by a recruiter profile.
type Job struct {
	ID      uuid.UUID `json:"id" db:"id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`

	Title    string `json:"title" db:"title"`
	Criteria string `json:"criteria" db:"criteria"`

	// ShareToken is embedded in the public application link. Candidates
	// applying through the link do not authenticate.
	ShareToken string `json:"share_token" db:"share_token"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
