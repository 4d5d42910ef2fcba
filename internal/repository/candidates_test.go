package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/talentsift/talentsift/internal/models"
)

// fakeRow replays a fixed column set through the rowScanner interface
type fakeRow struct {
	values []any
}

func (f *fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *uuid.UUID:
			*v = f.values[i].(uuid.UUID)
		case *string:
			*v = f.values[i].(string)
		case **string:
			*v, _ = f.values[i].(*string)
		case *models.CandidateStatus:
			*v = f.values[i].(models.CandidateStatus)
		case *[]byte:
			*v, _ = f.values[i].([]byte)
		case **float64:
			*v, _ = f.values[i].(*float64)
		case *bool:
			*v = f.values[i].(bool)
		case *time.Time:
			*v = f.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanCandidate_DecodesResultBlob(t *testing.T) {
	result := &models.AnalysisResult{CandidateName: "Maria", MatchScore: 7.5}
	blob, _ := json.Marshal(result)
	score := 7.5
	path := "jobs/x/cv.pdf"

	row := &fakeRow{values: []any{
		uuid.New(), uuid.New(), "cv.pdf", &path,
		models.CandidateStatusCompleted, blob, &score, (*string)(nil),
		false, time.Now(), time.Now(),
	}}

	c, err := scanCandidate(row)
	if err != nil {
		t.Fatalf("scanCandidate failed: %v", err)
	}

	if !c.HasResult() {
		t.Fatal("completed candidate with blob must carry a result")
	}
	if c.Result.CandidateName != "Maria" {
		t.Errorf("CandidateName = %q", c.Result.CandidateName)
	}
}

func TestScanCandidate_NullResult(t *testing.T) {
	row := &fakeRow{values: []any{
		uuid.New(), uuid.New(), "cv.pdf", (*string)(nil),
		models.CandidateStatusPending, []byte(nil), (*float64)(nil), (*string)(nil),
		false, time.Now(), time.Now(),
	}}

	c, err := scanCandidate(row)
	if err != nil {
		t.Fatalf("scanCandidate failed: %v", err)
	}

	if c.Result != nil {
		t.Error("pending candidate must not carry a result")
	}
}
