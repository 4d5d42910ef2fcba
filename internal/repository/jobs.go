package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsift/talentsift/internal/models"
)

const jobColumns = `id, owner_id, title, criteria, share_token, created_at, updated_at`

// JobsRepository handles jobs table operations.
type JobsRepository struct {
	pool *pgxpool.Pool
}

// NewJobsRepository creates a new jobs repository.
func NewJobsRepository(pool *pgxpool.Pool) *JobsRepository {
	return &JobsRepository{pool: pool}
}

// Create inserts a new job, minting a share token when absent.
func (r *JobsRepository) Create(ctx context.Context, j *models.Job) error {
	if j.ShareToken == "" {
		token, err := newShareToken()
		if err != nil {
			return err
		}
		j.ShareToken = token
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO jobs (owner_id, title, criteria, share_token)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, j.OwnerID, j.Title, j.Criteria, j.ShareToken,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

// GetByID returns a job by ID, nil when absent.
func (r *JobsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE id = $1
	`, id).Scan(&j.ID, &j.OwnerID, &j.Title, &j.Criteria, &j.ShareToken, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return &j, nil
}

// GetByShareToken resolves a public application link.
func (r *JobsRepository) GetByShareToken(ctx context.Context, token string) (*models.Job, error) {
	var j models.Job
	err := r.pool.QueryRow(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE share_token = $1
	`, token).Scan(&j.ID, &j.OwnerID, &j.Title, &j.Criteria, &j.ShareToken, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job by share token: %w", err)
	}
	return &j, nil
}

// ListByOwner returns the recruiter's jobs, newest first.
func (r *JobsRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+jobColumns+` FROM jobs WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.OwnerID, &j.Title, &j.Criteria, &j.ShareToken, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Delete removes a job and cascades to its candidates.
func (r *JobsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func newShareToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("mint share token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
