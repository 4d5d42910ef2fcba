// Package publisher emits analysis lifecycle events to JetStream so other
// services (notifiers, billing sync) can react without polling.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
)

// Subjects for analysis events. The stream is created by the server at
// startup.
const (
	StreamName             = "resumes"
	SubjectCandidateScored = "resumes.analyzed"
	SubjectBatchCompleted  = "resumes.batch.completed"
)

// JetStreamClient interface to allow mocking
type JetStreamClient interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// CandidateScoredEvent is published once per committed candidate.
type CandidateScoredEvent struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	JobID       uuid.UUID `json:"job_id"`
	Status      string    `json:"status"`
	MatchScore  *float64  `json:"match_score,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// BatchCompletedEvent is published once per finished batch.
type BatchCompletedEvent struct {
	JobID          uuid.UUID `json:"job_id"`
	ProcessedCount int       `json:"processed_count"`
	ErrorCount     int       `json:"error_count"`
	TimeTakenSec   float64   `json:"time_taken_sec"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Publisher publishes analysis events.
type Publisher struct {
	js JetStreamClient
}

// New creates a new publisher.
func New(js JetStreamClient) *Publisher {
	return &Publisher{js: js}
}

// PublishCandidateScored publishes a per-candidate terminal transition.
func (p *Publisher) PublishCandidateScored(ctx context.Context, candidateID, jobID uuid.UUID, status models.CandidateStatus, score *float64) error {
	event := CandidateScoredEvent{
		CandidateID: candidateID,
		JobID:       jobID,
		Status:      string(status),
		MatchScore:  score,
		OccurredAt:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.js.Publish(ctx, SubjectCandidateScored, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// PublishBatchCompleted publishes the batch summary.
func (p *Publisher) PublishBatchCompleted(ctx context.Context, jobID uuid.UUID, processed, errored int, timeTaken time.Duration) error {
	event := BatchCompletedEvent{
		JobID:          jobID,
		ProcessedCount: processed,
		ErrorCount:     errored,
		TimeTakenSec:   timeTaken.Seconds(),
		OccurredAt:     time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.js.Publish(ctx, SubjectBatchCompleted, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}
