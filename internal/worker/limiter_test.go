package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("https://feeds.example.com/rss") {
			allowed++
		}
	}

	if allowed != 3 {
		t.Errorf("Expected 3 requests within burst, got %d", allowed)
	}
}

func TestLimiter_PerHostIsolation(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("https://a.example.com/rss") {
		t.Error("Expected first request to host a to be allowed")
	}
	if l.Allow("https://a.example.com/rss") {
		t.Error("Expected second request to host a to be limited")
	}
	if !l.Allow("https://b.example.com/rss") {
		t.Error("Expected host b to have its own budget")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)

	// Exhaust the burst so the next Wait must block.
	if !l.Allow("https://a.example.com/rss") {
		t.Fatal("Expected burst slot")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "https://a.example.com/rss"); err == nil {
		t.Error("Expected context deadline error from Wait")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(100, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "https://a.example.com/rss", 30*time.Millisecond); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected at least 30ms delay, got %v", elapsed)
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	l := NewLimiter(1, 1)
	if l.Allow("://not-a-url") {
		t.Error("Expected invalid URL to be disallowed")
	}
}
