// Package quota tracks per-profile résumé usage against plan limits.
package quota

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentsift/talentsift/internal/models"
)

// ProfilesRepository defines required DB operations
type ProfilesRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	IncrementResumeUsage(ctx context.Context, id uuid.UUID, delta int) (*models.Profile, error)
}

// Reconciler increments the usage counter after a batch. It is accounting,
// not admission control: a batch is never blocked up front.
type Reconciler struct {
	profiles ProfilesRepository
	log      *zerolog.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(profiles ProfilesRepository, log *zerolog.Logger) *Reconciler {
	return &Reconciler{profiles: profiles, log: log}
}

// Reconcile adds completedCount to the profile's usage and returns the
// refreshed profile. Unlimited plans skip the write entirely.
func (r *Reconciler) Reconcile(ctx context.Context, profileID uuid.UUID, completedCount int) (*models.Profile, error) {
	profile, err := r.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("profile not found: %s", profileID)
	}

	if profile.HasUnlimitedResumes() {
		r.log.Debug().Str("profile_id", profileID.String()).Msg("unlimited plan, skipping usage accounting")
		return profile, nil
	}

	if completedCount <= 0 {
		return profile, nil
	}

	updated, err := r.profiles.IncrementResumeUsage(ctx, profileID, completedCount)
	if err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}

	r.log.Info().
		Str("profile_id", profileID.String()).
		Int("completed", completedCount).
		Int("usage", updated.ResumeUsage).
		Int("limit", updated.ResumeLimit).
		Msg("résumé usage reconciled")

	return updated, nil
}
