package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan names. Plans only differ in the résumé limit applied at signup; the
// limit itself is stored per profile so admins can override it.
const (
	PlanFree      = "free"
	PlanPro       = "pro"
	PlanUnlimited = "unlimited"
)

// Profile represents a recruiter account. Authentication is external; the
// profile row mirrors the auth provider's user id.
type Profile struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Email string    `json:"email" db:"email"`
	Name  string    `json:"name" db:"name"`

	Plan string `json:"plan" db:"plan"`

	// ResumeUsage counts résumés analyzed to completion. ResumeLimit < 0
	// means unlimited.
	ResumeUsage int `json:"resume_usage" db:"resume_usage"`
	ResumeLimit int `json:"resume_limit" db:"resume_limit"`

	IsAdmin bool `json:"is_admin" db:"is_admin"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidPlan reports whether name is a known plan.
func IsValidPlan(name string) bool {
	return name == PlanFree || name == PlanPro || name == PlanUnlimited
}

// HasUnlimitedResumes reports whether usage accounting is disabled for the
// profile.
func (p *Profile) HasUnlimitedResumes() bool {
	return p.ResumeLimit < 0
}

// RemainingResumes returns how many analyses are left on the plan. Negative
// limits report -1 (unlimited).
func (p *Profile) RemainingResumes() int {
	if p.HasUnlimitedResumes() {
		return -1
	}
	remaining := p.ResumeLimit - p.ResumeUsage
	if remaining < 0 {
		return 0
	}
	return remaining
}
