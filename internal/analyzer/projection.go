package analyzer

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
)

// Projection is an in-memory view of each job's candidate list. It is
// refreshed from the database at batch boundaries and patched in place
// as candidates move through the pipeline, so readers never hit the
// database mid-batch.
type Projection struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID][]models.Candidate
}

func NewProjection() *Projection {
	return &Projection{jobs: make(map[uuid.UUID][]models.Candidate)}
}

// Refresh reloads the job's candidate list from the repository.
func (p *Projection) Refresh(ctx context.Context, repo CandidatesRepository, jobID uuid.UUID) error {
	candidates, err := repo.ListByJob(ctx, jobID)
	if err != nil {
		return err
	}
	p.Replace(jobID, candidates)
	return nil
}

// Replace swaps the job's cached list wholesale.
func (p *Projection) Replace(jobID uuid.UUID, candidates []models.Candidate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs[jobID] = candidates
}

// SetStatus patches a single candidate's status in the cached list.
// Unknown candidates are ignored.
func (p *Projection) SetStatus(jobID, candidateID uuid.UUID, status models.CandidateStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.jobs[jobID] {
		if p.jobs[jobID][i].ID == candidateID {
			p.jobs[jobID][i].Status = status
			return
		}
	}
}

// Update replaces a single cached candidate with its fresh row.
func (p *Projection) Update(jobID uuid.UUID, candidate models.Candidate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.jobs[jobID] {
		if p.jobs[jobID][i].ID == candidate.ID {
			p.jobs[jobID][i] = candidate
			return
		}
	}
	p.jobs[jobID] = append(p.jobs[jobID], candidate)
}

// Snapshot returns a copy of the job's cached candidates.
func (p *Projection) Snapshot(jobID uuid.UUID) []models.Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cached, ok := p.jobs[jobID]
	if !ok {
		return nil
	}
	out := make([]models.Candidate, len(cached))
	copy(out, cached)
	return out
}

// Drop evicts the job from the cache.
func (p *Projection) Drop(jobID uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.jobs, jobID)
}
