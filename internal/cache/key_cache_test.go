package cache

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestNew_EmptyAddrIsNoop(t *testing.T) {
	c := New(Options{TTL: time.Minute}, slog.Default())
	if _, ok := c.(Noop); !ok {
		t.Fatalf("expected Noop, got %T", c)
	}

	ctx := context.Background()
	if err := c.Set(ctx, "u", "gpt-4o", "sk-1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "u", "gpt-4o"); ok {
		t.Error("noop cache must always miss")
	}
	if err := c.Ping(ctx); !errors.Is(err, ErrDisabled) {
		t.Errorf("Ping = %v, want ErrDisabled", err)
	}
}

func TestCacheKey(t *testing.T) {
	if got := cacheKey("u1", "gpt-4o"); got != "static-model:u1:gpt-4o" {
		t.Errorf("cacheKey = %q", got)
	}
}
