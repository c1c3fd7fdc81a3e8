package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxItemsPerFeed != 5 {
		t.Errorf("MaxItemsPerFeed default = %d, want 5", cfg.MaxItemsPerFeed)
	}
	if cfg.MaxItemAge != 24*time.Hour {
		t.Errorf("MaxItemAge default = %v, want 24h", cfg.MaxItemAge)
	}
	if cfg.TitleTTL != 72*time.Hour {
		t.Errorf("TitleTTL default = %v, want 72h", cfg.TitleTTL)
	}
	if cfg.DispatchDelay != 800*time.Millisecond {
		t.Errorf("DispatchDelay default = %v, want 800ms", cfg.DispatchDelay)
	}
	if cfg.Notifications() {
		t.Error("no credentials should mean notifications disabled, not an error")
	}
}

func TestValidateRejectsHalfCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	if _, err := Load(); err == nil {
		t.Error("token without chat id should fail validation")
	}
}

func TestValidateRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("MAX_ITEM_AGE", "0")

	if _, err := Load(); err == nil {
		t.Error("zero MAX_ITEM_AGE should fail validation")
	}
}
