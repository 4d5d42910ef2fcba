package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/document"
	"github.com/talentsift/talentsift/internal/models"
)

type fakeJobs struct {
	job *models.Job
}

func (f *fakeJobs) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	if f.job == nil || f.job.ID != id {
		return nil, nil
	}
	return f.job, nil
}

type fakeCandidates struct {
	mu         sync.Mutex
	candidates map[uuid.UUID]*models.Candidate
	saveErr    error
	saved      []uuid.UUID
	errored    []uuid.UUID
}

func newFakeCandidates(candidates ...*models.Candidate) *fakeCandidates {
	f := &fakeCandidates{candidates: make(map[uuid.UUID]*models.Candidate)}
	for _, c := range candidates {
		f.candidates[c.ID] = c
	}
	return f
}

func (f *fakeCandidates) ListByJob(_ context.Context, jobID uuid.UUID) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Candidate
	for _, c := range f.candidates {
		if c.JobID == jobID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCandidates) ListByJobAndStatus(_ context.Context, jobID uuid.UUID, status models.CandidateStatus) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Candidate
	for _, c := range f.candidates {
		if c.JobID == jobID && c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCandidates) SaveResult(_ context.Context, id uuid.UUID, result *models.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	c := f.candidates[id]
	c.Status = models.CandidateStatusCompleted
	c.Result = result
	c.MatchScore = &result.MatchScore
	f.saved = append(f.saved, id)
	return nil
}

func (f *fakeCandidates) MarkError(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.candidates[id]
	c.Status = models.CandidateStatusError
	c.Result = nil
	c.MatchScore = nil
	f.errored = append(f.errored, id)
	return nil
}

func (f *fakeCandidates) get(id uuid.UUID) models.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.candidates[id]
}

type fakeFetcher struct {
	failPaths map[string]bool
}

func (f *fakeFetcher) FetchEncoded(_ context.Context, path, filename string) (*document.Payload, error) {
	if path == "" {
		return nil, document.ErrNoStoragePath
	}
	if f.failPaths[path] {
		return nil, document.ErrDownloadFailed
	}
	return &document.Payload{Filename: filename, MIMEType: "application/pdf", Base64: "ZGF0YQ=="}, nil
}

type fakeScorer struct {
	mu       sync.Mutex
	inFlight atomic.Int64
	maxSeen  atomic.Int64
	delay    time.Duration
	block    chan struct{}
	failures map[string]bool
	calls    []string
}

func (f *fakeScorer) Score(_ context.Context, doc *document.Payload, jobTitle, criteria string) *models.AnalysisResult {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxSeen.Load()
		if cur <= max || f.maxSeen.CompareAndSwap(max, cur) {
			break
		}
	}
	defer f.inFlight.Add(-1)

	if f.block != nil {
		<-f.block
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.calls = append(f.calls, doc.Filename)
	f.mu.Unlock()

	if f.failures[doc.Filename] {
		return models.FailedAnalysisResult()
	}
	return &models.AnalysisResult{
		CandidateName: strings.TrimSuffix(doc.Filename, ".pdf"),
		MatchScore:    7.5,
		Summary:       "ok",
		PhoneNumbers:  []string{},
		Pros:          []string{},
		Cons:          []string{},
		WorkHistory:   []models.WorkHistoryEntry{},
	}
}

type fakeQuota struct {
	mu    sync.Mutex
	calls []int
}

func (f *fakeQuota) Reconcile(_ context.Context, _ uuid.UUID, completed int) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, completed)
	return &models.Profile{}, nil
}

type fakeHub struct {
	mu       sync.Mutex
	messages [][]byte
}

func (f *fakeHub) Broadcast(message []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeHub) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

func pendingCandidate(jobID uuid.UUID, filename string) *models.Candidate {
	path := "resumes/" + filename
	return &models.Candidate{
		ID:       uuid.New(),
		JobID:    jobID,
		Filename: filename,
		FilePath: &path,
		Status:   models.CandidateStatusPending,
	}
}

func newTestScheduler(jobs *fakeJobs, candidates *fakeCandidates, scorer *fakeScorer, quota *fakeQuota, hub *fakeHub, concurrency int) *Scheduler {
	return NewScheduler(SchedulerConfig{
		Jobs:        jobs,
		Candidates:  candidates,
		Fetcher:     &fakeFetcher{},
		Scorer:      scorer,
		Quota:       quota,
		Hub:         hub,
		Concurrency: concurrency,
	})
}

func TestRunBatchScoresEveryPendingCandidateOnce(t *testing.T) {
	jobID := uuid.New()
	profileID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, OwnerID: profileID, Title: "Vendedor", Criteria: "experiência com vendas"}}

	c1 := pendingCandidate(jobID, "a.pdf")
	c2 := pendingCandidate(jobID, "b.pdf")
	c3 := pendingCandidate(jobID, "c.pdf")
	candidates := newFakeCandidates(c1, c2, c3)
	scorer := &fakeScorer{}
	quota := &fakeQuota{}
	hub := &fakeHub{}

	s := newTestScheduler(jobs, candidates, scorer, quota, hub, 5)
	if err := s.RunBatch(context.Background(), jobID, profileID); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if len(scorer.calls) != 3 {
		t.Fatalf("scorer called %d times, want 3", len(scorer.calls))
	}
	seen := map[string]int{}
	for _, name := range scorer.calls {
		seen[name]++
	}
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if seen[name] != 1 {
			t.Errorf("candidate %s scored %d times, want 1", name, seen[name])
		}
	}

	for _, c := range []*models.Candidate{c1, c2, c3} {
		got := candidates.get(c.ID)
		if got.Status != models.CandidateStatusCompleted {
			t.Errorf("candidate %s status = %s, want COMPLETED", c.Filename, got.Status)
		}
		if got.Result == nil {
			t.Errorf("candidate %s has no stored result", c.Filename)
		}
	}

	if len(quota.calls) != 1 || quota.calls[0] != 3 {
		t.Errorf("quota reconciled with %v, want [3]", quota.calls)
	}

	m := s.Metrics(jobID)
	if m.Running {
		t.Error("metrics still report a running batch")
	}
	if m.Total != 3 || m.Processed != 3 || m.Errored != 0 {
		t.Errorf("metrics = %+v, want total 3, processed 3, errored 0", m)
	}
	if m.TimeTakenSec < 0 {
		t.Errorf("time taken = %f, want >= 0", m.TimeTakenSec)
	}
}

func TestRunBatchRespectsConcurrencyBound(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Analista"}}

	var all []*models.Candidate
	for i := 0; i < 12; i++ {
		all = append(all, pendingCandidate(jobID, uuid.NewString()+".pdf"))
	}
	candidates := newFakeCandidates(all...)
	scorer := &fakeScorer{delay: 10 * time.Millisecond}

	s := newTestScheduler(jobs, candidates, scorer, &fakeQuota{}, &fakeHub{}, 3)
	if err := s.RunBatch(context.Background(), jobID, uuid.New()); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if max := scorer.maxSeen.Load(); max > 3 {
		t.Errorf("observed %d concurrent scorings, want at most 3", max)
	}
	if len(scorer.calls) != 12 {
		t.Errorf("scorer called %d times, want 12", len(scorer.calls))
	}
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Motorista"}}

	ok1 := pendingCandidate(jobID, "ok1.pdf")
	bad := pendingCandidate(jobID, "bad.pdf")
	ok2 := pendingCandidate(jobID, "ok2.pdf")
	candidates := newFakeCandidates(ok1, bad, ok2)
	scorer := &fakeScorer{}
	quota := &fakeQuota{}

	s := NewScheduler(SchedulerConfig{
		Jobs:       jobs,
		Candidates: candidates,
		Fetcher:    &fakeFetcher{failPaths: map[string]bool{"resumes/bad.pdf": true}},
		Scorer:     scorer,
		Quota:      quota,
		Hub:        &fakeHub{},
	})
	if err := s.RunBatch(context.Background(), jobID, uuid.New()); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	got := candidates.get(bad.ID)
	if got.Status != models.CandidateStatusError {
		t.Errorf("failed candidate status = %s, want ERROR", got.Status)
	}
	if got.Result != nil {
		t.Error("failed candidate must not carry a result")
	}
	for _, c := range []*models.Candidate{ok1, ok2} {
		if candidates.get(c.ID).Status != models.CandidateStatusCompleted {
			t.Errorf("candidate %s was not completed", c.Filename)
		}
	}

	if len(quota.calls) != 1 || quota.calls[0] != 2 {
		t.Errorf("quota reconciled with %v, want [2]", quota.calls)
	}
}

func TestRunBatchSentinelResultBecomesError(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Recepcionista"}}

	c := pendingCandidate(jobID, "exhausted.pdf")
	candidates := newFakeCandidates(c)
	scorer := &fakeScorer{failures: map[string]bool{"exhausted.pdf": true}}

	s := newTestScheduler(jobs, candidates, scorer, &fakeQuota{}, &fakeHub{}, 2)
	if err := s.RunBatch(context.Background(), jobID, uuid.New()); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	got := candidates.get(c.ID)
	if got.Status != models.CandidateStatusError {
		t.Errorf("status = %s, want ERROR", got.Status)
	}
	if got.Result != nil {
		t.Error("sentinel results must not be persisted")
	}
	if len(candidates.saved) != 0 {
		t.Errorf("SaveResult called %d times, want 0", len(candidates.saved))
	}
}

func TestRunBatchWithNoPendingCandidatesIsNoOp(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Auxiliar"}}
	done := pendingCandidate(jobID, "done.pdf")
	done.Status = models.CandidateStatusCompleted
	candidates := newFakeCandidates(done)
	scorer := &fakeScorer{}
	quota := &fakeQuota{}
	hub := &fakeHub{}

	s := newTestScheduler(jobs, candidates, scorer, quota, hub, 4)
	if err := s.RunBatch(context.Background(), jobID, uuid.New()); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if len(scorer.calls) != 0 {
		t.Errorf("scorer called %d times, want 0", len(scorer.calls))
	}
	if len(quota.calls) != 0 {
		t.Errorf("quota reconciled %d times, want 0", len(quota.calls))
	}
	if hub.count() != 0 {
		t.Errorf("hub got %d messages, want 0", hub.count())
	}
}

func TestEmptyRetriggerLeavesMetricsUntouched(t *testing.T) {
	jobID := uuid.New()
	profileID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, OwnerID: profileID, Title: "Motorista"}}
	candidates := newFakeCandidates(pendingCandidate(jobID, "cv.pdf"))

	s := newTestScheduler(jobs, candidates, &fakeScorer{}, &fakeQuota{}, &fakeHub{}, 2)
	if err := s.RunBatch(context.Background(), jobID, profileID); err != nil {
		t.Fatalf("first batch failed: %v", err)
	}

	before := s.Metrics(jobID)
	if before.Total != 1 || before.Processed != 1 {
		t.Fatalf("metrics after first batch = %+v, want total 1, processed 1", before)
	}

	// every candidate is terminal now, so the re-trigger is a no-op
	if err := s.RunBatch(context.Background(), jobID, profileID); err != nil {
		t.Fatalf("empty re-trigger failed: %v", err)
	}

	after := s.Metrics(jobID)
	if after != before {
		t.Errorf("metrics changed by empty re-trigger: before %+v, after %+v", before, after)
	}
}

func TestRunBatchRejectsConcurrentTrigger(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Cozinheiro"}}
	candidates := newFakeCandidates(pendingCandidate(jobID, "slow.pdf"))
	scorer := &fakeScorer{block: make(chan struct{})}

	s := newTestScheduler(jobs, candidates, scorer, &fakeQuota{}, &fakeHub{}, 2)

	errs := make(chan error, 1)
	go func() {
		errs <- s.RunBatch(context.Background(), jobID, uuid.New())
	}()

	// wait for the first batch to take the slot
	deadline := time.After(2 * time.Second)
	for {
		if s.Metrics(jobID).Running {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first batch never started")
		case <-time.After(time.Millisecond):
		}
	}

	if err := s.RunBatch(context.Background(), jobID, uuid.New()); !errors.Is(err, ErrBatchRunning) {
		t.Errorf("second trigger returned %v, want ErrBatchRunning", err)
	}

	close(scorer.block)
	if err := <-errs; err != nil {
		t.Fatalf("first batch failed: %v", err)
	}
	if s.Metrics(jobID).Running {
		t.Error("batch still marked running after completion")
	}
}

func TestRunBatchUnknownJob(t *testing.T) {
	s := newTestScheduler(&fakeJobs{}, newFakeCandidates(), &fakeScorer{}, &fakeQuota{}, &fakeHub{}, 2)
	if err := s.RunBatch(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("RunBatch returned %v, want ErrJobNotFound", err)
	}
}

func TestRunBatchMissingFilePathFailsCandidate(t *testing.T) {
	jobID := uuid.New()
	jobs := &fakeJobs{job: &models.Job{ID: jobID, Title: "Estoquista"}}
	c := pendingCandidate(jobID, "nopath.pdf")
	c.FilePath = nil
	candidates := newFakeCandidates(c)
	scorer := &fakeScorer{}

	s := newTestScheduler(jobs, candidates, scorer, &fakeQuota{}, &fakeHub{}, 2)
	if err := s.RunBatch(context.Background(), jobID, uuid.New()); err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}

	if candidates.get(c.ID).Status != models.CandidateStatusError {
		t.Errorf("status = %s, want ERROR", candidates.get(c.ID).Status)
	}
	if len(scorer.calls) != 0 {
		t.Error("scorer must not run for candidates without a stored file")
	}
}
