package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.RetryMaxAttempts != 1 {
		t.Errorf("RetryMaxAttempts = %d, want 1", cfg.RetryMaxAttempts)
	}
	if cfg.NameMinTokens != 1 {
		t.Errorf("NameMinTokens = %d, want 1", cfg.NameMinTokens)
	}
	if cfg.SessionTTL != 72*time.Hour {
		t.Errorf("SessionTTL = %v, want 72h", cfg.SessionTTL)
	}
	if len(cfg.SalesEmails) == 0 {
		t.Error("SalesEmails should have a default recipient")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TOP_K", "5")
	t.Setenv("SALES_EMAILS", "a@two.travel, b@two.travel,")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("USE_MEMORY_SESSIONS", "true")

	cfg := Load()

	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if len(cfg.SalesEmails) != 2 {
		t.Fatalf("SalesEmails = %v, want 2 entries", cfg.SalesEmails)
	}
	if cfg.SalesEmails[1] != "b@two.travel" {
		t.Errorf("SalesEmails[1] = %q", cfg.SalesEmails[1])
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
	}
	if !cfg.UseMemorySessions {
		t.Error("UseMemorySessions should be true")
	}
}
