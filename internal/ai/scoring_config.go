package ai

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoringConfig holds the model chain and decoding parameters.
type ScoringConfig struct {
	// Models is the ordered fallback chain, tried first to last.
	Models []string `yaml:"models"`

	// BackoffMS is the pause before advancing the chain after a rate
	// limit. The observed upstream systems settle around 1500ms.
	BackoffMS int `yaml:"backoff_ms"`

	Temperature float32 `yaml:"temperature"`
	TopK        int32   `yaml:"top_k"`

	// Rubric overrides the built-in scoring rubric when set.
	Rubric string `yaml:"rubric"`
}

// DefaultScoringConfig returns the config used when no scoring.yaml exists.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Models:      []string{"gemini-2.5-flash", "gemini-2.0-flash", "gemini-flash-latest"},
		BackoffMS:   1500,
		Temperature: 0.1,
		TopK:        40,
	}
}

// LoadScoringConfig reads a scoring config from a YAML file, filling absent
// fields with defaults.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scoring config: %w", err)
	}

	cfg := DefaultScoringConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config: %w", err)
	}

	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("scoring config %s lists no models", path)
	}
	if cfg.BackoffMS < 0 {
		cfg.BackoffMS = 0
	}

	return cfg, nil
}

// Backoff returns the rate-limit pause as a duration.
func (c *ScoringConfig) Backoff() time.Duration {
	return time.Duration(c.BackoffMS) * time.Millisecond
}
