package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
	"github.com/talentsift/talentsift/internal/web"
)

func successResult(name string, score float64) *models.AnalysisResult {
	return &models.AnalysisResult{
		CandidateName: name,
		MatchScore:    score,
		Summary:       "resumo",
		PhoneNumbers:  []string{},
		Pros:          []string{},
		Cons:          []string{},
		WorkHistory:   []models.WorkHistoryEntry{},
	}
}

func TestCommitSuccessPersistsAndBroadcasts(t *testing.T) {
	jobID := uuid.New()
	c := pendingCandidate(jobID, "maria.pdf")
	candidates := newFakeCandidates(c)
	hub := &fakeHub{}
	projection := NewProjection()
	projection.Replace(jobID, []models.Candidate{*c})

	committer := NewCommitter(candidates, projection, hub, nil, nil)
	status := committer.CommitSuccess(context.Background(), c.ID, jobID, successResult("Maria", 8.2))

	if status != models.CandidateStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", status)
	}
	if got := candidates.get(c.ID); got.Result == nil || got.Result.CandidateName != "Maria" {
		t.Error("result was not persisted")
	}

	snap := projection.Snapshot(jobID)
	if len(snap) != 1 || snap[0].Status != models.CandidateStatusCompleted {
		t.Errorf("projection not updated: %+v", snap)
	}

	if hub.count() != 1 {
		t.Fatalf("hub got %d messages, want 1", hub.count())
	}
	var evt web.WSEvent
	if err := json.Unmarshal(hub.messages[0], &evt); err != nil {
		t.Fatalf("broadcast is not valid JSON: %v", err)
	}
	if evt.Type != web.EventCandidateUpdated {
		t.Errorf("event type = %s, want %s", evt.Type, web.EventCandidateUpdated)
	}
}

func TestCommitSuccessPersistFailureDegradesToError(t *testing.T) {
	jobID := uuid.New()
	c := pendingCandidate(jobID, "lost.pdf")
	candidates := newFakeCandidates(c)
	candidates.saveErr = errors.New("connection reset")

	committer := NewCommitter(candidates, NewProjection(), nil, nil, nil)
	status := committer.CommitSuccess(context.Background(), c.ID, jobID, successResult("Perdido", 5.0))

	if status != models.CandidateStatusError {
		t.Fatalf("status = %s, want ERROR", status)
	}
	got := candidates.get(c.ID)
	if got.Status != models.CandidateStatusError {
		t.Errorf("candidate status = %s, want ERROR", got.Status)
	}
	if got.Result != nil {
		t.Error("candidate must not keep a result after a failed commit")
	}
}

func TestCommitFailureClearsResult(t *testing.T) {
	jobID := uuid.New()
	c := pendingCandidate(jobID, "joao.pdf")
	candidates := newFakeCandidates(c)

	committer := NewCommitter(candidates, NewProjection(), nil, nil, nil)
	status := committer.CommitFailure(context.Background(), c.ID, jobID)

	if status != models.CandidateStatusError {
		t.Fatalf("status = %s, want ERROR", status)
	}
	if len(candidates.errored) != 1 || candidates.errored[0] != c.ID {
		t.Errorf("MarkError calls = %v, want [%s]", candidates.errored, c.ID)
	}
}

type recordingPublisher struct {
	scored []uuid.UUID
	scores []*float64
}

func (r *recordingPublisher) PublishCandidateScored(_ context.Context, candidateID, _ uuid.UUID, _ models.CandidateStatus, score *float64) error {
	r.scored = append(r.scored, candidateID)
	r.scores = append(r.scores, score)
	return nil
}

func (r *recordingPublisher) PublishBatchCompleted(context.Context, uuid.UUID, int, int, time.Duration) error {
	return nil
}

func TestCommitSuccessPublishesScore(t *testing.T) {
	jobID := uuid.New()
	c := pendingCandidate(jobID, "ana.pdf")
	candidates := newFakeCandidates(c)
	pub := &recordingPublisher{}

	committer := NewCommitter(candidates, NewProjection(), nil, pub, nil)
	committer.CommitSuccess(context.Background(), c.ID, jobID, successResult("Ana", 9.1))

	if len(pub.scored) != 1 || pub.scored[0] != c.ID {
		t.Fatalf("published candidates = %v, want [%s]", pub.scored, c.ID)
	}
	if pub.scores[0] == nil || *pub.scores[0] != 9.1 {
		t.Errorf("published score = %v, want 9.1", pub.scores[0])
	}
}

func TestCommitFailurePublishesNilScore(t *testing.T) {
	jobID := uuid.New()
	c := pendingCandidate(jobID, "bruno.pdf")
	candidates := newFakeCandidates(c)
	pub := &recordingPublisher{}

	committer := NewCommitter(candidates, NewProjection(), nil, pub, nil)
	committer.CommitFailure(context.Background(), c.ID, jobID)

	if len(pub.scored) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.scored))
	}
	if pub.scores[0] != nil {
		t.Errorf("published score = %v, want nil", *pub.scores[0])
	}
}
