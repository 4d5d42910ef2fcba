// Package repository contains the datastore access layer.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talentsift/talentsift/internal/models"
)

const candidateColumns = `id, job_id, filename, file_path, status, analysis_result,
	       match_score, extracted_text, is_selected, created_at, updated_at`

// CandidatesRepository handles candidates table operations.
type CandidatesRepository struct {
	pool *pgxpool.Pool
}

// NewCandidatesRepository creates a new candidates repository.
func NewCandidatesRepository(pool *pgxpool.Pool) *CandidatesRepository {
	return &CandidatesRepository{pool: pool}
}

// Create inserts a new candidate in UPLOADING state.
func (r *CandidatesRepository) Create(ctx context.Context, c *models.Candidate) error {
	if c.Status == "" {
		c.Status = models.CandidateStatusUploading
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO candidates (job_id, filename, file_path, status, extracted_text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.JobID, c.Filename, c.FilePath, c.Status, c.ExtractedText,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create candidate: %w", err)
	}
	return nil
}

// GetByID returns a candidate by ID, nil when absent.
func (r *CandidatesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE id = $1
	`, id)

	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get candidate by id: %w", err)
	}
	return c, nil
}

// ListByJob returns all candidates of a job, oldest first.
func (r *CandidatesRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE job_id = $1
		ORDER BY created_at ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	return collectCandidates(rows)
}

// ListByJobAndStatus returns the job's candidates with the given status,
// oldest first. The batch scheduler captures its queue from this.
func (r *CandidatesRepository) ListByJobAndStatus(ctx context.Context, jobID uuid.UUID, status models.CandidateStatus) ([]models.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE job_id = $1 AND status = $2
		ORDER BY created_at ASC
	`, jobID, status)
	if err != nil {
		return nil, fmt.Errorf("list candidates by status: %w", err)
	}
	defer rows.Close()

	return collectCandidates(rows)
}

// SetFilePath records the stored blob path and flips the candidate from
// UPLOADING to PENDING.
func (r *CandidatesRepository) SetFilePath(ctx context.Context, id uuid.UUID, path string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE candidates
		SET file_path = $2, status = $3, updated_at = NOW()
		WHERE id = $1
	`, id, path, models.CandidateStatusPending)
	if err != nil {
		return fmt.Errorf("set candidate file path: %w", err)
	}
	return nil
}

// UpdateStatus updates only the candidate status.
func (r *CandidatesRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CandidateStatus) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE candidates SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("update candidate status: %w", err)
	}
	return nil
}

// SaveResult persists a completed analysis: status, result blob and score in
// one write.
func (r *CandidatesRepository) SaveResult(ctx context.Context, id uuid.UUID, result *models.AnalysisResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal analysis result: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		UPDATE candidates
		SET status = $2, analysis_result = $3, match_score = $4, updated_at = NOW()
		WHERE id = $1
	`, id, models.CandidateStatusCompleted, blob, result.MatchScore)
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	return nil
}

// MarkError puts the candidate in ERROR state and clears any stale result.
func (r *CandidatesRepository) MarkError(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE candidates
		SET status = $2, analysis_result = NULL, match_score = NULL, updated_at = NOW()
		WHERE id = $1
	`, id, models.CandidateStatusError)
	if err != nil {
		return fmt.Errorf("mark candidate error: %w", err)
	}
	return nil
}

// SetSelected toggles the recruiter's shortlist flag.
func (r *CandidatesRepository) SetSelected(ctx context.Context, id uuid.UUID, selected bool) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE candidates SET is_selected = $2, updated_at = NOW() WHERE id = $1
	`, id, selected)
	if err != nil {
		return fmt.Errorf("set candidate selected: %w", err)
	}
	return nil
}

// Delete removes a candidate row.
func (r *CandidatesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var c models.Candidate
	var resultBlob []byte

	err := row.Scan(
		&c.ID, &c.JobID, &c.Filename, &c.FilePath, &c.Status, &resultBlob,
		&c.MatchScore, &c.ExtractedText, &c.IsSelected, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(resultBlob) > 0 {
		var result models.AnalysisResult
		if err := json.Unmarshal(resultBlob, &result); err != nil {
			return nil, fmt.Errorf("decode analysis result: %w", err)
		}
		c.Result = &result
	}

	return &c, nil
}

func collectCandidates(rows pgx.Rows) ([]models.Candidate, error) {
	var candidates []models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}
