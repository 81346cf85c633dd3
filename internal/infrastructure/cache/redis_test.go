package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"skill-gap/internal/config"
)

func TestRedis_NotConfigured(t *testing.T) {
	r := NewRedis(config.RedisConfig{KeyPrefix: "t:"}, nil)
	ctx := context.Background()

	if r.Available() {
		t.Fatal("expected unavailable")
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ping: %v", err)
	}
	if err := r.SetJSON(ctx, "k", 1, time.Second); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("set: %v", err)
	}
	var out int
	if _, err := r.GetJSON(ctx, "k", &out); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("get: %v", err)
	}
	if _, err := r.Delete(ctx, "k"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("delete: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRedis_NilIsUnavailable(t *testing.T) {
	var r *Redis
	if r.Available() {
		t.Fatal("nil redis reported available")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRedis_KeyPrefix(t *testing.T) {
	r := NewRedis(config.RedisConfig{KeyPrefix: "skill-gap:"}, nil)
	if got := r.key("analyses:1"); got != "skill-gap:analyses:1" {
		t.Fatalf("key = %q", got)
	}
}

func TestRedis_UnreachableFallsBack(t *testing.T) {
	r := NewRedis(config.RedisConfig{Host: "127.0.0.1", Port: "1"}, nil)
	if r.Available() {
		t.Fatal("expected unavailable for closed port")
	}
}
