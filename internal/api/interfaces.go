package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/analyzer"
	"github.com/talentsift/talentsift/internal/models"
)

// JobsRepository defines the interface for job data access.
type JobsRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetByShareToken(ctx context.Context, token string) (*models.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CandidatesRepository defines the interface for candidate data access.
type CandidatesRepository interface {
	Create(ctx context.Context, c *models.Candidate) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Candidate, error)
	SetFilePath(ctx context.Context, id uuid.UUID, path string) error
	SetSelected(ctx context.Context, id uuid.UUID, selected bool) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.CandidateStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfilesRepository defines the interface for profile data access.
type ProfilesRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	List(ctx context.Context, limit int) ([]models.Profile, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan string, resumeLimit int) error
}

// AnnouncementsRepository defines the interface for announcement data access.
type AnnouncementsRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context) ([]models.Announcement, error)
	ListActive(ctx context.Context) ([]models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlobStore defines the interface for résumé file storage.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	SignedURL(path string, expiresInSec int) (string, error)
}

// AnalysisService defines the interface for triggering and observing
// analysis batches.
type AnalysisService interface {
	RunBatch(ctx context.Context, jobID, profileID uuid.UUID) error
	Metrics(jobID uuid.UUID) analyzer.BatchMetrics
}

// HubBroadcaster defines the interface for WebSocket broadcasting.
type HubBroadcaster interface {
	Broadcast(message []byte)
}
