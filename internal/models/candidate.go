package models

import (
	"time"

	"github.com/google/uuid"
)

// CandidateStatus represents the lifecycle state of a candidate résumé.
type CandidateStatus string

// CandidateStatus constants define the possible states of a candidate.
const (
	CandidateStatusUploading CandidateStatus = "UPLOADING"
	CandidateStatusPending   CandidateStatus = "PENDING"
	CandidateStatusAnalyzing CandidateStatus = "ANALYZING"
	CandidateStatusCompleted CandidateStatus = "COMPLETED"
	CandidateStatusError     CandidateStatus = "ERROR"
)

// Candidate represents one uploaded résumé attached to a job.
type Candidate struct {
	ID    uuid.UUID `json:"id" db:"id"`
	JobID uuid.UUID `json:"job_id" db:"job_id"`

	// file
	Filename string  `json:"filename" db:"filename"`
	FilePath *string `json:"file_path,omitempty" db:"file_path"`

	// analysis
	Status     CandidateStatus `json:"status" db:"status"`
	Result     *AnalysisResult `json:"analysis_result,omitempty" db:"analysis_result"`
	MatchScore *float64        `json:"match_score,omitempty" db:"match_score"`

	// extracted by docconv at upload time, used for search and for
	// text-only model providers
	ExtractedText *string `json:"extracted_text,omitempty" db:"extracted_text"`

	IsSelected bool `json:"is_selected" db:"is_selected"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsValidStatus checks if candidate status is valid.
func (c *Candidate) IsValidStatus() bool {
	valid := map[CandidateStatus]bool{
		CandidateStatusUploading: true, CandidateStatusPending: true,
		CandidateStatusAnalyzing: true, CandidateStatusCompleted: true,
		CandidateStatusError: true,
	}
	return valid[c.Status]
}

// IsPending checks if candidate is waiting for analysis.
func (c *Candidate) IsPending() bool {
	return c.Status == CandidateStatusPending
}

// IsTerminal reports whether the candidate reached a final analysis state.
func (c *Candidate) IsTerminal() bool {
	return c.Status == CandidateStatusCompleted || c.Status == CandidateStatusError
}

// HasResult enforces the result/status invariant: a candidate carries a
// result if and only if it completed analysis.
func (c *Candidate) HasResult() bool {
	return c.Status == CandidateStatusCompleted && c.Result != nil
}
