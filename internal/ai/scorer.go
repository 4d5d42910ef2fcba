package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/talentsift/talentsift/internal/document"
	"github.com/talentsift/talentsift/internal/models"
)

// Scorer runs the model fallback chain. Score never returns an error: when
// the whole chain fails it returns the sentinel failure result so callers
// deal with one result shape.
type Scorer struct {
	caller  ModelCaller
	cfg     *ScoringConfig
	limiter *rate.Limiter
	sleep   func(time.Duration)
	log     *zerolog.Logger
}

// NewScorer creates a Scorer. limiter may be nil to disable request pacing.
func NewScorer(caller ModelCaller, cfg *ScoringConfig, limiter *rate.Limiter, log *zerolog.Logger) *Scorer {
	return &Scorer{
		caller:  caller,
		cfg:     cfg,
		limiter: limiter,
		sleep:   time.Sleep,
		log:     log,
	}
}

// Score evaluates one résumé against a job. Models are tried in order; a
// rate-limited model delays the configured backoff before the next attempt,
// any other failure advances immediately.
func (s *Scorer) Score(ctx context.Context, doc *document.Payload, jobTitle, criteria string) *models.AnalysisResult {
	prompt := BuildPrompt(jobTitle, criteria, s.cfg.Rubric)

	for i, model := range s.cfg.Models {
		if ctx.Err() != nil {
			break
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				break
			}
		}

		raw, err := s.caller.Generate(ctx, model, Request{
			Prompt:      prompt,
			Document:    doc,
			Temperature: s.cfg.Temperature,
			TopK:        s.cfg.TopK,
		})
		if err != nil {
			last := i == len(s.cfg.Models)-1
			s.log.Warn().Err(err).Str("model", model).Bool("last", last).Msg("model call failed")
			if errors.Is(err, ErrRateLimited) && !last {
				s.sleep(s.cfg.Backoff())
			}
			continue
		}

		result, err := ParseResult(raw)
		if err != nil {
			s.log.Warn().Err(err).Str("model", model).Msg("model returned unusable payload")
			continue
		}

		return result
	}

	return models.FailedAnalysisResult()
}

// ParseResult decodes raw model output into a sanitized AnalysisResult.
func ParseResult(raw string) (*models.AnalysisResult, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, errors.New("empty model response")
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}

	sanitize(&result)
	return &result, nil
}

// extractJSON strips code-fence markers and truncates the text to the
// outermost {...} span. Some models wrap JSON in prose or markdown.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

func sanitize(r *models.AnalysisResult) {
	if strings.TrimSpace(r.CandidateName) == "" {
		r.CandidateName = models.FallbackCandidateName
	}
	if r.MatchScore < 0 {
		r.MatchScore = 0
	}
	if r.MatchScore > 10 {
		r.MatchScore = 10
	}
	if strings.TrimSpace(r.City) == "" {
		r.City = models.UnknownLocation
	}
	if strings.TrimSpace(r.Neighborhood) == "" {
		r.Neighborhood = models.UnknownLocation
	}
	if r.PhoneNumbers == nil {
		r.PhoneNumbers = []string{}
	}
	if r.Pros == nil {
		r.Pros = []string{}
	}
	if r.Cons == nil {
		r.Cons = []string{}
	}
	if r.WorkHistory == nil {
		r.WorkHistory = []models.WorkHistoryEntry{}
	}
}
