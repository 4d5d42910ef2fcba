package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/document"
	"github.com/talentsift/talentsift/internal/models"
)

// CandidatesRepository defines required DB operations
type CandidatesRepository interface {
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Candidate, error)
	ListByJobAndStatus(ctx context.Context, jobID uuid.UUID, status models.CandidateStatus) ([]models.Candidate, error)
	SaveResult(ctx context.Context, id uuid.UUID, result *models.AnalysisResult) error
	MarkError(ctx context.Context, id uuid.UUID) error
}

// JobsRepository resolves the job under analysis
type JobsRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// DocumentFetcher retrieves and encodes stored résumés
type DocumentFetcher interface {
	FetchEncoded(ctx context.Context, path, filename string) (*document.Payload, error)
}

// Scorer evaluates one résumé against the job. It never fails: chain
// exhaustion comes back as the sentinel failure result.
type Scorer interface {
	Score(ctx context.Context, doc *document.Payload, jobTitle, criteria string) *models.AnalysisResult
}

// QuotaReconciler runs the post-batch usage accounting
type QuotaReconciler interface {
	Reconcile(ctx context.Context, profileID uuid.UUID, completedCount int) (*models.Profile, error)
}

// Broadcaster pushes status-stream messages to connected clients
type Broadcaster interface {
	Broadcast(message []byte)
}

// EventPublisher emits analysis events to the message bus
type EventPublisher interface {
	PublishCandidateScored(ctx context.Context, candidateID, jobID uuid.UUID, status models.CandidateStatus, score *float64) error
	PublishBatchCompleted(ctx context.Context, jobID uuid.UUID, processed, errored int, timeTaken time.Duration) error
}
