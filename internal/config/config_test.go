package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("KIOSK_PROVIDER")
	os.Unsetenv("KIOSK_CONFIDENCE_THRESHOLD")
	os.Unsetenv("KIOSK_STAFF_CAPACITY")
	os.Unsetenv("KIOSK_SYNC_INTERVAL")

	cfg := Load()

	if cfg.Kiosk.Provider != "openai" {
		t.Errorf("expected default provider 'openai', got '%s'", cfg.Kiosk.Provider)
	}

	if cfg.Kiosk.ConfidenceThreshold != 0.85 {
		t.Errorf("expected default threshold 0.85, got %f", cfg.Kiosk.ConfidenceThreshold)
	}

	if cfg.Kiosk.StaffCapacity != 100 {
		t.Errorf("expected default staff capacity 100, got %d", cfg.Kiosk.StaffCapacity)
	}

	if cfg.Webhook.SyncInterval != 60*time.Second {
		t.Errorf("expected default sync interval 60s, got %v", cfg.Webhook.SyncInterval)
	}
}

func TestLoad_CustomThreshold(t *testing.T) {
	t.Setenv("KIOSK_CONFIDENCE_THRESHOLD", "0.9")

	cfg := Load()

	if cfg.Kiosk.ConfidenceThreshold != 0.9 {
		t.Errorf("expected threshold 0.9, got %f", cfg.Kiosk.ConfidenceThreshold)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("KIOSK_CONFIDENCE_THRESHOLD", "1.5")

	cfg := Load()

	// Out of (0, 1] falls back to the default
	if cfg.Kiosk.ConfidenceThreshold != 0.85 {
		t.Errorf("expected default threshold 0.85 for out-of-range input, got %f", cfg.Kiosk.ConfidenceThreshold)
	}
}

func TestLoad_NegativeCapacity(t *testing.T) {
	t.Setenv("KIOSK_STAFF_CAPACITY", "-5")

	cfg := Load()

	if cfg.Kiosk.StaffCapacity != 100 {
		t.Errorf("expected default capacity 100 for negative input, got %d", cfg.Kiosk.StaffCapacity)
	}
}

func TestLoad_SyncIntervalClampedLow(t *testing.T) {
	t.Setenv("KIOSK_SYNC_INTERVAL", "5s")

	cfg := Load()

	if cfg.Webhook.SyncInterval != 30*time.Second {
		t.Errorf("expected clamped interval 30s, got %v", cfg.Webhook.SyncInterval)
	}
}

func TestLoad_SyncIntervalClampedHigh(t *testing.T) {
	t.Setenv("KIOSK_SYNC_INTERVAL", "1h")

	cfg := Load()

	if cfg.Webhook.SyncInterval != 5*time.Minute {
		t.Errorf("expected clamped interval 5m, got %v", cfg.Webhook.SyncInterval)
	}
}

func TestLoad_SyncIntervalInRange(t *testing.T) {
	t.Setenv("KIOSK_SYNC_INTERVAL", "2m")

	cfg := Load()

	if cfg.Webhook.SyncInterval != 2*time.Minute {
		t.Errorf("expected interval 2m, got %v", cfg.Webhook.SyncInterval)
	}
}

func TestLoad_InvalidSyncInterval(t *testing.T) {
	t.Setenv("KIOSK_SYNC_INTERVAL", "soon")

	cfg := Load()

	if cfg.Webhook.SyncInterval != 60*time.Second {
		t.Errorf("expected default interval 60s for invalid input, got %v", cfg.Webhook.SyncInterval)
	}
}

func TestLoad_Credentials(t *testing.T) {
	t.Setenv("OPENAI_TOKEN", "sk-test-token-123")
	t.Setenv("GEMINI_API_KEY", "gemini-key-456")
	t.Setenv("KIOSK_WEBHOOK_URL", "https://script.google.com/macros/s/abc/exec")

	cfg := Load()

	if cfg.OpenAI.Token != "sk-test-token-123" {
		t.Errorf("expected OpenAI token 'sk-test-token-123', got '%s'", cfg.OpenAI.Token)
	}

	if cfg.Gemini.APIKey != "gemini-key-456" {
		t.Errorf("expected Gemini API key 'gemini-key-456', got '%s'", cfg.Gemini.APIKey)
	}

	if cfg.Webhook.URL != "https://script.google.com/macros/s/abc/exec" {
		t.Errorf("unexpected webhook URL '%s'", cfg.Webhook.URL)
	}
}

func TestLoad_EmptyEnvVars(t *testing.T) {
	os.Unsetenv("OPENAI_TOKEN")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("KIOSK_WEBHOOK_URL")

	cfg := Load()

	if cfg.OpenAI.Token != "" {
		t.Errorf("expected empty OpenAI token, got '%s'", cfg.OpenAI.Token)
	}

	if cfg.Webhook.URL != "" {
		t.Errorf("expected empty webhook URL, got '%s'", cfg.Webhook.URL)
	}
}

func TestLoad_RosterEmbedded(t *testing.T) {
	cfg := Load()

	// The embedded roster ships empty; it must parse without error and
	// produce a non-nil slice semantics-wise (empty is fine).
	if cfg.Roster.Staff == nil {
		// yaml decodes `staff: []` to an empty non-nil slice; nil would mean
		// the key is missing entirely, which is still acceptable.
		t.Log("roster staff list is nil (no seed entries)")
	}

	if len(cfg.Roster.Staff) != 0 {
		t.Errorf("expected empty seed roster, got %d entries", len(cfg.Roster.Staff))
	}
}
