package web

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
)

// WebSocket event types
const (
	EventCandidateUpdated = "candidate.updated"
	EventBatchStarted     = "batch.started"
	EventBatchCompleted   = "batch.completed"
)

// WSEvent represents a structured WebSocket message
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// CandidateUpdatedPayload is the payload for EventCandidateUpdated
type CandidateUpdatedPayload struct {
	CandidateID string                 `json:"candidate_id"`
	JobID       string                 `json:"job_id"`
	Status      string                 `json:"status"`
	Result      *models.AnalysisResult `json:"result,omitempty"`
}

// BatchPayload is the payload for batch start/completion events
type BatchPayload struct {
	JobID          string  `json:"job_id"`
	Total          int     `json:"total,omitempty"`
	ProcessedCount int     `json:"processed_count,omitempty"`
	TimeTakenSec   float64 `json:"time_taken_sec,omitempty"`
}

// CandidateUpdatedEvent builds the JSON message for a status transition
func CandidateUpdatedEvent(candidateID, jobID uuid.UUID, status models.CandidateStatus, result *models.AnalysisResult) []byte {
	evt := WSEvent{
		Type: EventCandidateUpdated,
		Payload: CandidateUpdatedPayload{
			CandidateID: candidateID.String(),
			JobID:       jobID.String(),
			Status:      string(status),
			Result:      result,
		},
	}
	b, _ := json.Marshal(evt)
	return b
}

// BatchStartedEvent builds the JSON message for a batch kickoff
func BatchStartedEvent(jobID uuid.UUID, total int) []byte {
	evt := WSEvent{
		Type:    EventBatchStarted,
		Payload: BatchPayload{JobID: jobID.String(), Total: total},
	}
	b, _ := json.Marshal(evt)
	return b
}

// BatchCompletedEvent builds the JSON message for a finished batch
func BatchCompletedEvent(jobID uuid.UUID, processed int, timeTakenSec float64) []byte {
	evt := WSEvent{
		Type: EventBatchCompleted,
		Payload: BatchPayload{
			JobID:          jobID.String(),
			ProcessedCount: processed,
			TimeTakenSec:   timeTakenSec,
		},
	}
	b, _ := json.Marshal(evt)
	return b
}
