package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model.Version != "v1" {
		t.Errorf("model version = %s, want v1", cfg.Model.Version)
	}
	if cfg.Model.HomeAdvantage != 1.25 {
		t.Errorf("home advantage = %.2f, want 1.25", cfg.Model.HomeAdvantage)
	}
	if cfg.Model.Rho != -0.1 {
		t.Errorf("rho = %.2f, want -0.1", cfg.Model.Rho)
	}
	if cfg.Model.MaxGoals != 10 {
		t.Errorf("max goals = %d, want 10", cfg.Model.MaxGoals)
	}
	if cfg.Model.FormAlpha != 0.3 {
		t.Errorf("form alpha = %.2f, want 0.3", cfg.Model.FormAlpha)
	}
	if cfg.Model.RestDayLookbackDays != 90 {
		t.Errorf("rest day lookback = %d, want 90", cfg.Model.RestDayLookbackDays)
	}
	if cfg.Redis.Stream != "calc.results" {
		t.Errorf("stream = %s, want calc.results", cfg.Redis.Stream)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("model:\n  version: v2\n  home_advantage: 1.3\nserver:\n  addr: \":9090\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Model.Version != "v2" {
		t.Errorf("model version = %s, want v2", cfg.Model.Version)
	}
	if cfg.Model.HomeAdvantage != 1.3 {
		t.Errorf("home advantage = %.2f, want 1.3", cfg.Model.HomeAdvantage)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %s, want :9090", cfg.Server.Addr)
	}
	// Untouched keys keep their defaults.
	if cfg.Model.MaxGoals != 10 {
		t.Errorf("max goals = %d, want default 10", cfg.Model.MaxGoals)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model version", func(c *Config) { c.Model.Version = "" }},
		{"zero home advantage", func(c *Config) { c.Model.HomeAdvantage = 0 }},
		{"rho out of range", func(c *Config) { c.Model.Rho = 0.9 }},
		{"max goals too small", func(c *Config) { c.Model.MaxGoals = 3 }},
		{"alpha at one", func(c *Config) { c.Model.FormAlpha = 1.0 }},
		{"zero form window", func(c *Config) { c.Model.FormWindow = 0 }},
		{"negative threshold", func(c *Config) { c.Model.RegressionThreshold = -0.1 }},
		{"multiplier floor at one", func(c *Config) { c.Model.MultiplierFloor = 1.0 }},
		{"zero draw workers", func(c *Config) { c.Model.DrawWorkers = 0 }},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }},
		{"empty redis addr", func(c *Config) { c.Redis.Addr = "" }},
		{"empty stream", func(c *Config) { c.Redis.Stream = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
