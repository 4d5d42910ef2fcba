package analyzer

import (
	"context"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/models"
	"github.com/talentsift/talentsift/internal/web"
)

// Committer persists a candidate's analysis outcome and fans the
// transition out to the projection, websocket clients and the bus.
type Committer struct {
	candidates CandidatesRepository
	projection *Projection
	hub        Broadcaster
	publisher  EventPublisher
	log        *logger.Logger
}

func NewCommitter(candidates CandidatesRepository, projection *Projection, hub Broadcaster, publisher EventPublisher, log *logger.Logger) *Committer {
	if log == nil {
		log = logger.Get()
	}
	return &Committer{
		candidates: candidates,
		projection: projection,
		hub:        hub,
		publisher:  publisher,
		log:        log,
	}
}

// CommitSuccess stores a scored result and marks the candidate
// COMPLETED. If persistence fails the candidate is committed as a
// failure instead, so it never stays stuck in ANALYZING.
func (c *Committer) CommitSuccess(ctx context.Context, candidateID, jobID uuid.UUID, result *models.AnalysisResult) models.CandidateStatus {
	if err := c.candidates.SaveResult(ctx, candidateID, result); err != nil {
		c.log.Error().Err(err).
			Str("candidate_id", candidateID.String()).
			Msg("failed to persist analysis result")
		return c.CommitFailure(ctx, candidateID, jobID)
	}

	c.notify(ctx, candidateID, jobID, models.CandidateStatusCompleted, result)
	return models.CandidateStatusCompleted
}

// CommitFailure marks the candidate ERROR without storing a result.
func (c *Committer) CommitFailure(ctx context.Context, candidateID, jobID uuid.UUID) models.CandidateStatus {
	if err := c.candidates.MarkError(ctx, candidateID); err != nil {
		c.log.Error().Err(err).
			Str("candidate_id", candidateID.String()).
			Msg("failed to mark candidate errored")
	}

	c.notify(ctx, candidateID, jobID, models.CandidateStatusError, nil)
	return models.CandidateStatusError
}

func (c *Committer) notify(ctx context.Context, candidateID, jobID uuid.UUID, status models.CandidateStatus, result *models.AnalysisResult) {
	if c.projection != nil {
		c.projection.SetStatus(jobID, candidateID, status)
	}

	if c.hub != nil {
		c.hub.Broadcast(web.CandidateUpdatedEvent(candidateID, jobID, status, result))
	}

	if c.publisher != nil {
		var score *float64
		if result != nil && !result.IsFailure() {
			score = &result.MatchScore
		}
		if err := c.publisher.PublishCandidateScored(ctx, candidateID, jobID, status, score); err != nil {
			c.log.Warn().Err(err).
				Str("candidate_id", candidateID.String()).
				Msg("failed to publish candidate event")
		}
	}
}
