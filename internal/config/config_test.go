package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}

	if cfg.Port != "4000" {
		t.Fatalf("expected default port 4000, got %s", cfg.Port)
	}
	if cfg.Provider != ProviderLive {
		t.Fatalf("expected default provider %s, got %s", ProviderLive, cfg.Provider)
	}
	if cfg.Roster.TTL != 15*time.Minute {
		t.Fatalf("expected 15m roster ttl, got %s", cfg.Roster.TTL)
	}
	if cfg.Discovery.SummaryTemplate != "/hitters/{id}/summary" {
		t.Fatalf("unexpected summary template %q", cfg.Discovery.SummaryTemplate)
	}
	if cfg.Discovery.SearchPath != "/hitters/search" {
		t.Fatalf("unexpected search path %q", cfg.Discovery.SearchPath)
	}
	if cfg.Fetch.MaxRetries != 2 || cfg.Fetch.BackoffBase != 300*time.Millisecond {
		t.Fatalf("unexpected fetch defaults %+v", cfg.Fetch)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Port != "9090" {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("PROVIDER", "fixture")
	t.Setenv("ROSTER_TTL", "1m")
	t.Setenv("DEEP_DIVE_HITTER_SUMMARY_ROUTE", "/hitters/{name}/summary")
	t.Setenv("FETCH_MAX_RETRIES", "4")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected overrides to load, got %v", err)
	}

	if cfg.Port != "5000" || cfg.Provider != ProviderFixture {
		t.Fatalf("unexpected server overrides %+v", cfg)
	}
	if cfg.Roster.TTL != time.Minute {
		t.Fatalf("expected ttl override, got %s", cfg.Roster.TTL)
	}
	if cfg.Discovery.SummaryTemplate != "/hitters/{name}/summary" {
		t.Fatalf("expected template override, got %q", cfg.Discovery.SummaryTemplate)
	}
	if cfg.Fetch.MaxRetries != 4 {
		t.Fatalf("expected retries override, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("expected metrics disabled")
	}
}

func TestLoadInvalidDurationFails(t *testing.T) {
	t.Setenv("ROSTER_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected error on invalid duration")
	}
}

func TestLoadNonPositiveDurationFails(t *testing.T) {
	t.Setenv("ROSTER_WARM_INTERVAL", "0s")

	if _, err := Load(); err == nil {
		t.Fatal("expected error on non-positive duration")
	}
}

func TestLoadUnknownProviderFails(t *testing.T) {
	t.Setenv("PROVIDER", "scraper")

	if _, err := Load(); err == nil {
		t.Fatal("expected error on unknown provider")
	}
}
