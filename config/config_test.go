package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Analysis.ShortWindow != 20 || cfg.Analysis.LongWindow != 60 {
		t.Errorf("windows = (%d, %d), want (20, 60)", cfg.Analysis.ShortWindow, cfg.Analysis.LongWindow)
	}
	if cfg.Analysis.ProfileWindow != 120 || cfg.Analysis.ProfileBins != 30 {
		t.Errorf("profile = (%d, %d), want (120, 30)", cfg.Analysis.ProfileWindow, cfg.Analysis.ProfileBins)
	}
	if cfg.Analysis.SurgeRatio != 1.5 {
		t.Errorf("SurgeRatio = %v, want 1.5", cfg.Analysis.SurgeRatio)
	}
	if cfg.Analysis.FetchAttempts != 3 {
		t.Errorf("FetchAttempts = %d, want 3", cfg.Analysis.FetchAttempts)
	}
	if cfg.Analysis.FetchDelayMin != 100*time.Millisecond || cfg.Analysis.FetchDelayMax != 3*time.Second {
		t.Errorf("fetch delay = (%s, %s), want (100ms, 3s)", cfg.Analysis.FetchDelayMin, cfg.Analysis.FetchDelayMax)
	}
	if len(cfg.Gemini.Models) != 3 || cfg.Gemini.Models[0] != "gemini-1.5-flash" {
		t.Errorf("Gemini.Models = %v", cfg.Gemini.Models)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q", cfg.HTTP.Addr)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_SHORT_WINDOW", "10")
	t.Setenv("ANALYSIS_LONG_WINDOW", "40")
	t.Setenv("ANALYSIS_COARSE_LABELS", "true")
	t.Setenv("FETCH_MAX_ATTEMPTS", "5")
	t.Setenv("FETCH_DELAY_MIN", "50ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analysis.ShortWindow != 10 || cfg.Analysis.LongWindow != 40 {
		t.Errorf("windows = (%d, %d), want (10, 40)", cfg.Analysis.ShortWindow, cfg.Analysis.LongWindow)
	}
	if !cfg.Analysis.CoarseLabels {
		t.Error("CoarseLabels not overridden")
	}
	if cfg.Analysis.FetchAttempts != 5 {
		t.Errorf("FetchAttempts = %d, want 5", cfg.Analysis.FetchAttempts)
	}
	if cfg.Analysis.FetchDelayMin != 50*time.Millisecond {
		t.Errorf("FetchDelayMin = %s, want 50ms", cfg.Analysis.FetchDelayMin)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ANALYSIS_SHORT_WINDOW", "not-a-number")
	t.Setenv("ANALYSIS_SURGE_RATIO", "-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analysis.ShortWindow != 20 {
		t.Errorf("ShortWindow = %d, want the default 20", cfg.Analysis.ShortWindow)
	}
	if cfg.Analysis.SurgeRatio != 1.5 {
		t.Errorf("SurgeRatio = %v, want the default 1.5", cfg.Analysis.SurgeRatio)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(*Config) {}, false},
		{"zero short window", func(c *Config) { c.Analysis.ShortWindow = 0 }, true},
		{"long not beyond short", func(c *Config) { c.Analysis.LongWindow = 20 }, true},
		{"zero bins", func(c *Config) { c.Analysis.ProfileBins = 0 }, true},
		{"negative surge", func(c *Config) { c.Analysis.SurgeRatio = -1 }, true},
		{"zero attempts", func(c *Config) { c.Analysis.FetchAttempts = 0 }, true},
		{"inverted delay range", func(c *Config) {
			c.Analysis.FetchDelayMin = time.Second
			c.Analysis.FetchDelayMax = time.Millisecond
		}, true},
		{"zero headlines", func(c *Config) { c.Analysis.NewsHeadlines = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig()
			cfg.Analysis.FetchDelayMax = 3 * time.Second
			cfg.Analysis.FetchDelayMin = 100 * time.Millisecond
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasHelpers(t *testing.T) {
	cfg := NewTestConfig()
	if cfg.HasDatabase() {
		t.Error("HasDatabase() = true with empty URL")
	}
	if cfg.HasGemini() {
		t.Error("HasGemini() = true with empty key")
	}

	cfg.Database.URL = "postgres://localhost/protrader"
	cfg.Gemini.APIKey = "key"
	if !cfg.HasDatabase() || !cfg.HasGemini() {
		t.Error("Has helpers false with values set")
	}
}
