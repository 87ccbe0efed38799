package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "SESSION_USER_ID", "DEFAULT_MODEL", "CHAT_MAX_STEPS", "CHAT_SMOOTH_DELAY_MS", "REDIS_ADDR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionUserID != MockSessionUserID {
		t.Errorf("SessionUserID = %q, want %q", cfg.SessionUserID, MockSessionUserID)
	}
	if cfg.DefaultModel != "gpt-4o-mini" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Chat.MaxSteps != 10 || cfg.Chat.MaxRetries != 2 {
		t.Errorf("Chat = %+v, want MaxSteps 10 MaxRetries 2", cfg.Chat)
	}
	if cfg.Chat.SmoothDelay != 10*time.Millisecond {
		t.Errorf("SmoothDelay = %v", cfg.Chat.SmoothDelay)
	}
	if !cfg.Debug {
		t.Error("Debug should default to true in dev")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("CHAT_MAX_STEPS", "3")
	t.Setenv("CHAT_TEMPERATURE", "0.7")
	t.Setenv("KEY_CACHE_TTL_SECONDS", "not-a-number")

	cfg := Load()

	if cfg.Debug {
		t.Error("Debug should default to false in prod")
	}
	if cfg.Chat.MaxSteps != 3 {
		t.Errorf("MaxSteps = %d, want 3", cfg.Chat.MaxSteps)
	}
	if cfg.Chat.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", cfg.Chat.Temperature)
	}
	if cfg.KeyCacheTTL != 300*time.Second {
		t.Errorf("KeyCacheTTL = %v, want fallback 300s", cfg.KeyCacheTTL)
	}
}

func TestCORSOriginList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"wildcard", "*", []string{"*"}},
		{"multiple", "http://a.test, http://b.test", []string{"http://a.test", "http://b.test"}},
		{"blank entries", " , ", []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := (&Config{CORSOrigins: tt.in}).CORSOriginList()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
