package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://en.wikipedia.org/w/api.php"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "https://EN.wikipedia.org/wiki/Paris"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "http://example.com"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if len(limiter.limiters) != 2 {
		t.Errorf("expected 2 hosts, got %d", len(limiter.limiters))
	}
}

func TestLimiter_WaitRejectsMissingHost(t *testing.T) {
	limiter := NewLimiter(10, 1)
	if err := limiter.Wait(context.Background(), "/relative/path"); err == nil {
		t.Error("expected error for URL without host")
	}
	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Error("expected error for invalid URL")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.1, 1)
	url := "https://en.wikipedia.org/w/api.php"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when the context expires before a token is available")
	}
}

// waitWithin waits for a token for at most d
func waitWithin(l *Limiter, rawURL string, d time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return l.Wait(ctx, rawURL)
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	url := "http://example.com"

	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if err := waitWithin(limiter, url, 20*time.Millisecond); err == nil {
		t.Errorf("expected exhausted host to block")
	}
	if err := waitWithin(limiter, "http://other.com", 20*time.Millisecond); err != nil {
		t.Errorf("expected other host to pass: %v", err)
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(100, 10)
	limiter.SetHostRate("Slow.com", 0.1, 1)

	if err := waitWithin(limiter, "http://slow.com", 20*time.Millisecond); err != nil {
		t.Errorf("first request should pass: %v", err)
	}
	if err := waitWithin(limiter, "http://slow.com/page", 20*time.Millisecond); err == nil {
		t.Errorf("second request should block")
	}
	for i := 0; i < 5; i++ {
		if err := waitWithin(limiter, "http://fast.com", 20*time.Millisecond); err != nil {
			t.Errorf("other host should use the default rate: %v", err)
		}
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://Example.com:8080/foo")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "example.com:8080" {
		t.Errorf("expected example.com:8080, got %s", host)
	}
}
