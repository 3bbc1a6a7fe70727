package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	now := time.Unix(1_756_000_000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})

	for i := 0; i < 2; i++ {
		decision, err := limiter.Allow(context.Background(), "client-a", 2, time.Minute)
		if err != nil {
			t.Fatalf("Allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("request %d denied under the limit", i)
		}
		if decision.Remaining != 2-(i+1) {
			t.Fatalf("Remaining = %d after request %d", decision.Remaining, i)
		}
	}

	decision, err := limiter.Allow(context.Background(), "client-a", 2, time.Minute)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if decision.Allowed {
		t.Fatal("third request in the window must be denied")
	}
	if decision.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", decision.Remaining)
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	now := time.Unix(1_756_000_000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }})

	if _, err := limiter.Allow(context.Background(), "client-a", 1, time.Minute); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	denied, _ := limiter.Allow(context.Background(), "client-a", 1, time.Minute)
	if denied.Allowed {
		t.Fatal("second request must be denied")
	}

	now = now.Add(2 * time.Minute)
	allowed, err := limiter.Allow(context.Background(), "client-a", 1, time.Minute)
	if err != nil {
		t.Fatalf("Allow after window: %v", err)
	}
	if !allowed.Allowed {
		t.Fatal("request in a fresh window must be allowed")
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})

	if _, err := limiter.Allow(context.Background(), "client-a", 1, time.Minute); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	decision, err := limiter.Allow(context.Background(), "client-b", 1, time.Minute)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("a different key must have its own window")
	}
}

func TestMemoryLimiterZeroLimitAllows(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "client-a", 0, time.Minute)
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("zero limit disables enforcement")
	}
}

func TestMemoryLimiterCapacity(t *testing.T) {
	now := time.Unix(1_756_000_000, 0)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return now }, MaxKeys: 2})

	if _, err := limiter.Allow(context.Background(), "a", 1, time.Minute); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "b", 1, time.Minute); err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if _, err := limiter.Allow(context.Background(), "c", 1, time.Minute); err == nil {
		t.Fatal("expected capacity error once live keys exceed the cap")
	}

	// Expired buckets are collected and the key admits again.
	now = now.Add(2 * time.Minute)
	if _, err := limiter.Allow(context.Background(), "c", 1, time.Minute); err != nil {
		t.Fatalf("Allow after gc: %v", err)
	}
}
