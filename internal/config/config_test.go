package config

import (
	"os"
	"testing"
)

func TestConfig_ConcurrencyDefault(t *testing.T) {
	os.Unsetenv("ANALYSIS_CONCURRENCY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AnalysisConcurrency != 20 {
		t.Errorf("AnalysisConcurrency = %d, want 20", cfg.AnalysisConcurrency)
	}
}

func TestConfig_ConcurrencyFromEnv(t *testing.T) {
	os.Setenv("ANALYSIS_CONCURRENCY", "4")
	defer os.Unsetenv("ANALYSIS_CONCURRENCY")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AnalysisConcurrency != 4 {
		t.Errorf("AnalysisConcurrency = %d, want 4", cfg.AnalysisConcurrency)
	}
}

func TestConfig_ProviderDefault(t *testing.T) {
	os.Unsetenv("AI_PROVIDER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AIProvider != "gemini" {
		t.Errorf("AIProvider = %q, want %q", cfg.AIProvider, "gemini")
	}
}
