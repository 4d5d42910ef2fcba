package models

import (
	"testing"
)

func TestCandidate_IsValidStatus(t *testing.T) {
	c := &Candidate{Status: CandidateStatusPending}
	if !c.IsValidStatus() {
		t.Error("PENDING should be valid")
	}

	c.Status = "SOMETHING_ELSE"
	if c.IsValidStatus() {
		t.Error("unknown status should be invalid")
	}
}

func TestCandidate_HasResult(t *testing.T) {
	c := &Candidate{Status: CandidateStatusCompleted, Result: &AnalysisResult{CandidateName: "Ana"}}
	if !c.HasResult() {
		t.Error("completed candidate with result should satisfy the invariant")
	}

	// completed without result violates the invariant
	c.Result = nil
	if c.HasResult() {
		t.Error("completed candidate without result must not report a result")
	}

	// errored candidates never carry a result
	c.Status = CandidateStatusError
	c.Result = &AnalysisResult{}
	if c.HasResult() {
		t.Error("errored candidate must not report a result")
	}
}

func TestFailedAnalysisResult(t *testing.T) {
	r := FailedAnalysisResult()

	if r.CandidateName != FailedCandidateName {
		t.Errorf("unexpected sentinel name: %s", r.CandidateName)
	}
	if r.MatchScore != 0 {
		t.Errorf("sentinel score must be zero, got %f", r.MatchScore)
	}
	if len(r.Pros) != 0 {
		t.Error("sentinel pros must be empty")
	}
	if len(r.Cons) != 1 || r.Cons[0] != FailedProcessingNote {
		t.Errorf("unexpected sentinel cons: %v", r.Cons)
	}
	if !r.IsFailure() {
		t.Error("sentinel must report IsFailure")
	}
}

func TestProfile_RemainingResumes(t *testing.T) {
	p := &Profile{ResumeUsage: 30, ResumeLimit: 50}
	if got := p.RemainingResumes(); got != 20 {
		t.Errorf("expected 20 remaining, got %d", got)
	}

	p.ResumeUsage = 60
	if got := p.RemainingResumes(); got != 0 {
		t.Errorf("over-used plan should report 0, got %d", got)
	}

	p.ResumeLimit = -1
	if !p.HasUnlimitedResumes() {
		t.Error("negative limit means unlimited")
	}
	if got := p.RemainingResumes(); got != -1 {
		t.Errorf("unlimited plan should report -1, got %d", got)
	}
}
