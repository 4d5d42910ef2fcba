package analyzer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/models"
	"github.com/talentsift/talentsift/internal/web"
)

// ErrBatchRunning is returned when an analysis batch is triggered for a
// job that already has one in flight.
var ErrBatchRunning = errors.New("analysis batch already running for job")

// ErrJobNotFound is returned when the batch target does not exist.
var ErrJobNotFound = errors.New("job not found")

// DefaultConcurrency caps the number of résumés analyzed in parallel.
const DefaultConcurrency = 20

// BatchMetrics is a point-in-time view of a job's batch progress. After the
// batch completes the last run's counts remain readable with Running false.
type BatchMetrics struct {
	Running      bool    `json:"running"`
	Total        int     `json:"total"`
	Processed    int     `json:"processed"`
	Errored      int     `json:"errored"`
	TimeTakenSec float64 `json:"time_taken_sec"`
}

type batchState struct {
	total     int
	processed atomic.Int64
	errored   atomic.Int64

	started time.Time
	done    bool
	elapsed time.Duration
}

// Scheduler runs concurrency-bounded analysis batches over a job's
// pending candidates. One batch per job at a time; candidates within a
// batch fail independently.
type Scheduler struct {
	jobs       JobsRepository
	candidates CandidatesRepository
	fetcher    DocumentFetcher
	scorer     Scorer
	committer  *Committer
	quota      QuotaReconciler
	projection *Projection
	hub        Broadcaster
	publisher  EventPublisher

	concurrency int
	log         *logger.Logger

	mu      sync.Mutex
	batches map[uuid.UUID]*batchState
}

// SchedulerConfig carries the scheduler's collaborators.
type SchedulerConfig struct {
	Jobs        JobsRepository
	Candidates  CandidatesRepository
	Fetcher     DocumentFetcher
	Scorer      Scorer
	Quota       QuotaReconciler
	Projection  *Projection
	Hub         Broadcaster
	Publisher   EventPublisher
	Concurrency int
	Logger      *logger.Logger
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Projection == nil {
		cfg.Projection = NewProjection()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Get()
	}
	return &Scheduler{
		jobs:        cfg.Jobs,
		candidates:  cfg.Candidates,
		fetcher:     cfg.Fetcher,
		scorer:      cfg.Scorer,
		committer:   NewCommitter(cfg.Candidates, cfg.Projection, cfg.Hub, cfg.Publisher, cfg.Logger),
		quota:       cfg.Quota,
		projection:  cfg.Projection,
		hub:         cfg.Hub,
		publisher:   cfg.Publisher,
		concurrency: cfg.Concurrency,
		log:         cfg.Logger,
	}
}

// Projection exposes the scheduler's candidate cache for read paths.
func (s *Scheduler) Projection() *Projection {
	return s.projection
}

// Metrics reports the current batch progress for a job. A job with no
// batch on record reports zeroes.
func (s *Scheduler) Metrics(jobID uuid.UUID) BatchMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.batches[jobID]
	if !ok {
		return BatchMetrics{}
	}

	elapsed := state.elapsed
	if !state.done {
		elapsed = time.Since(state.started)
	}
	return BatchMetrics{
		Running:      !state.done,
		Total:        state.total,
		Processed:    int(state.processed.Load()),
		Errored:      int(state.errored.Load()),
		TimeTakenSec: elapsed.Seconds(),
	}
}

// RunBatch analyzes every PENDING candidate of the job and blocks until
// all of them reach a terminal state. Callers wanting fire-and-forget
// semantics run it in a goroutine.
func (s *Scheduler) RunBatch(ctx context.Context, jobID, profileID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("loading job: %w", err)
	}
	if job == nil {
		return ErrJobNotFound
	}

	pending, err := s.candidates.ListByJobAndStatus(ctx, jobID, models.CandidateStatusPending)
	if err != nil {
		return fmt.Errorf("listing pending candidates: %w", err)
	}

	if len(pending) == 0 {
		s.log.Info().Str("job_id", jobID.String()).Msg("no pending candidates, skipping batch")
		return nil
	}

	state := &batchState{total: len(pending), started: time.Now()}
	if !s.tryAcquire(jobID, state) {
		return ErrBatchRunning
	}
	defer s.finish(jobID)

	s.log.Info().
		Str("job_id", jobID.String()).
		Int("pending", len(pending)).
		Msg("starting analysis batch")

	if err := s.projection.Refresh(ctx, s.candidates, jobID); err != nil {
		s.log.Warn().Err(err).Str("job_id", jobID.String()).Msg("failed to refresh candidate projection")
	}
	for _, c := range pending {
		s.projection.SetStatus(jobID, c.ID, models.CandidateStatusAnalyzing)
	}
	if s.hub != nil {
		s.hub.Broadcast(web.BatchStartedEvent(jobID, len(pending)))
	}

	queue := make(chan models.Candidate, len(pending))
	for _, c := range pending {
		queue <- c
	}
	close(queue)

	workers := s.concurrency
	if len(pending) < workers {
		workers = len(pending)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for candidate := range queue {
				status := s.analyzeOne(ctx, job, candidate)
				if status == models.CandidateStatusCompleted {
					state.processed.Add(1)
				} else {
					state.errored.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	timeTaken := time.Since(state.started)
	processed := int(state.processed.Load())
	errored := int(state.errored.Load())

	if err := s.projection.Refresh(ctx, s.candidates, jobID); err != nil {
		s.log.Warn().Err(err).Str("job_id", jobID.String()).Msg("failed to refresh candidate projection")
	}
	s.reconcileQuota(ctx, profileID, processed)

	if s.hub != nil {
		s.hub.Broadcast(web.BatchCompletedEvent(jobID, processed, timeTaken.Seconds()))
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBatchCompleted(ctx, jobID, processed, errored, timeTaken); err != nil {
			s.log.Warn().Err(err).Str("job_id", jobID.String()).Msg("failed to publish batch event")
		}
	}

	s.log.Info().
		Str("job_id", jobID.String()).
		Int("processed", processed).
		Int("errored", errored).
		Dur("time_taken", timeTaken).
		Msg("analysis batch completed")

	return nil
}

// analyzeOne runs a single candidate through fetch, score and commit.
// It always lands the candidate in a terminal state.
func (s *Scheduler) analyzeOne(ctx context.Context, job *models.Job, candidate models.Candidate) models.CandidateStatus {
	path := ""
	if candidate.FilePath != nil {
		path = *candidate.FilePath
	}

	doc, err := s.fetcher.FetchEncoded(ctx, path, candidate.Filename)
	if err != nil {
		s.log.Error().Err(err).
			Str("candidate_id", candidate.ID.String()).
			Msg("failed to fetch résumé document")
		return s.committer.CommitFailure(ctx, candidate.ID, job.ID)
	}
	if candidate.ExtractedText != nil {
		doc.Text = *candidate.ExtractedText
	}

	result := s.scorer.Score(ctx, doc, job.Title, job.Criteria)
	if result.IsFailure() {
		return s.committer.CommitFailure(ctx, candidate.ID, job.ID)
	}
	return s.committer.CommitSuccess(ctx, candidate.ID, job.ID, result)
}

func (s *Scheduler) reconcileQuota(ctx context.Context, profileID uuid.UUID, processed int) {
	if s.quota == nil || processed == 0 {
		return
	}
	if _, err := s.quota.Reconcile(ctx, profileID, processed); err != nil {
		s.log.Warn().Err(err).
			Str("profile_id", profileID.String()).
			Msg("failed to reconcile resume quota")
	}
}

func (s *Scheduler) tryAcquire(jobID uuid.UUID, state *batchState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batches == nil {
		s.batches = make(map[uuid.UUID]*batchState)
	}
	if existing, ok := s.batches[jobID]; ok && !existing.done {
		return false
	}
	s.batches[jobID] = state
	return true
}

func (s *Scheduler) finish(jobID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.batches[jobID]; ok && !state.done {
		state.elapsed = time.Since(state.started)
		state.done = true
	}
}
