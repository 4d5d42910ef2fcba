package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsift/talentsift/internal/models"
)

const profileColumns = `id, email, name, plan, resume_usage, resume_limit, is_admin, created_at, updated_at`

// ProfilesRepository handles profiles table operations.
type ProfilesRepository struct {
	pool *pgxpool.Pool
}

// NewProfilesRepository creates a new profiles repository.
func NewProfilesRepository(pool *pgxpool.Pool) *ProfilesRepository {
	return &ProfilesRepository{pool: pool}
}

// GetByID returns a profile by ID, nil when absent.
func (r *ProfilesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT `+profileColumns+` FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.Name, &p.Plan, &p.ResumeUsage, &p.ResumeLimit, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return &p, nil
}

// List returns all profiles, newest first. Admin back-office only.
func (r *ProfilesRepository) List(ctx context.Context, limit int) ([]models.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &p.Plan, &p.ResumeUsage, &p.ResumeLimit, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// IncrementResumeUsage adds delta to the usage counter and returns the
// updated profile. The increment happens in the datastore so concurrent
// batches cannot lose updates.
func (r *ProfilesRepository) IncrementResumeUsage(ctx context.Context, id uuid.UUID, delta int) (*models.Profile, error) {
	var p models.Profile
	err := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET resume_usage = resume_usage + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+profileColumns+`
	`, id, delta).Scan(&p.ID, &p.Email, &p.Name, &p.Plan, &p.ResumeUsage, &p.ResumeLimit, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("increment resume usage: %w", err)
	}
	return &p, nil
}

// UpdatePlan applies an admin plan override: plan name and résumé limit.
func (r *ProfilesRepository) UpdatePlan(ctx context.Context, id uuid.UUID, plan string, resumeLimit int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET plan = $2, resume_limit = $3, updated_at = NOW()
		WHERE id = $1
	`, id, plan, resumeLimit)
	if err != nil {
		return fmt.Errorf("update profile plan: %w", err)
	}
	return nil
}
