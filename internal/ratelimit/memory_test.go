package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T) (*MemoryLimiter, *time.Time) {
	t.Helper()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter()
	l.now = func() time.Time { return current }
	t.Cleanup(l.Stop)

	return l, &current
}

func TestMemoryLimiter_Check(t *testing.T) {
	ctx := context.Background()
	window := 15 * time.Minute

	t.Run("allows attempts under the limit", func(t *testing.T) {
		l, _ := newTestLimiter(t)

		result := l.Check(ctx, "login:ip:10.0.0.1", 10, window)
		if !result.Allowed {
			t.Error("expected fresh key to be allowed")
		}
		if result.RemainingAttempts != 10 {
			t.Errorf("expected 10 remaining attempts, got %d", result.RemainingAttempts)
		}

		for i := 0; i < 3; i++ {
			l.RecordAttempt(ctx, "login:ip:10.0.0.1", window)
		}

		result = l.Check(ctx, "login:ip:10.0.0.1", 10, window)
		if !result.Allowed {
			t.Error("expected key under limit to be allowed")
		}
		if result.RemainingAttempts != 7 {
			t.Errorf("expected 7 remaining attempts, got %d", result.RemainingAttempts)
		}
		if result.TotalAttempts != 3 {
			t.Errorf("expected 3 total attempts, got %d", result.TotalAttempts)
		}
	})

	t.Run("blocks when the limit is reached", func(t *testing.T) {
		l, now := newTestLimiter(t)

		for i := 0; i < 5; i++ {
			l.RecordAttempt(ctx, "login:rg:12345", window)
		}

		result := l.Check(ctx, "login:rg:12345", 5, window)
		if result.Allowed {
			t.Error("expected key at limit to be denied")
		}
		if result.RemainingAttempts != 0 {
			t.Errorf("expected 0 remaining attempts, got %d", result.RemainingAttempts)
		}
		if got, want := result.ResetTime, now.Add(BlockDuration); !got.Equal(want) {
			t.Errorf("expected reset at %v, got %v", want, got)
		}
		if !l.IsBlocked(ctx, "login:rg:12345") {
			t.Error("expected key to report blocked")
		}
	})

	t.Run("block outlives the attempt window", func(t *testing.T) {
		l, now := newTestLimiter(t)
		shortWindow := time.Minute

		for i := 0; i < 3; i++ {
			l.RecordAttempt(ctx, "k", shortWindow)
		}
		l.Check(ctx, "k", 3, shortWindow)

		// attempts have aged out, the block has not
		*now = now.Add(5 * time.Minute)

		result := l.Check(ctx, "k", 3, shortWindow)
		if result.Allowed {
			t.Error("expected blocked key to stay denied after attempts expired")
		}
		if result.TotalAttempts != 3 {
			t.Errorf("expected total attempts frozen at 3, got %d", result.TotalAttempts)
		}
	})

	t.Run("block expires after its duration", func(t *testing.T) {
		l, now := newTestLimiter(t)

		for i := 0; i < 3; i++ {
			l.RecordAttempt(ctx, "k", window)
		}
		l.Check(ctx, "k", 3, window)

		*now = now.Add(BlockDuration + time.Second)

		result := l.Check(ctx, "k", 3, window)
		if !result.Allowed {
			t.Error("expected key to be allowed after the block expired")
		}
		if l.IsBlocked(ctx, "k") {
			t.Error("expected expired block to report unblocked")
		}
	})

	t.Run("zero max attempts always denies", func(t *testing.T) {
		l, _ := newTestLimiter(t)

		result := l.Check(ctx, "k", 0, window)
		if result.Allowed {
			t.Error("expected maxAttempts 0 to deny")
		}
		if result.RemainingAttempts != 0 {
			t.Errorf("expected 0 remaining attempts, got %d", result.RemainingAttempts)
		}
	})

	t.Run("keys are tracked independently", func(t *testing.T) {
		l, _ := newTestLimiter(t)

		for i := 0; i < 5; i++ {
			l.RecordAttempt(ctx, "login:rg:111", window)
		}
		l.Check(ctx, "login:rg:111", 5, window)

		result := l.Check(ctx, "login:rg:222", 5, window)
		if !result.Allowed {
			t.Error("expected untouched key to be allowed")
		}
	})
}

func TestMemoryLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	window := 15 * time.Minute

	l, _ := newTestLimiter(t)

	for i := 0; i < 5; i++ {
		l.RecordAttempt(ctx, "login:rg:12345", window)
	}
	l.Check(ctx, "login:rg:12345", 5, window)

	l.Reset(ctx, "login:rg:12345")

	result := l.Check(ctx, "login:rg:12345", 5, window)
	if !result.Allowed {
		t.Error("expected reset key to be allowed")
	}
	if result.TotalAttempts != 0 {
		t.Errorf("expected 0 total attempts after reset, got %d", result.TotalAttempts)
	}
	if l.IsBlocked(ctx, "login:rg:12345") {
		t.Error("expected reset to clear the block")
	}
}

func TestMemoryLimiter_Cleanup(t *testing.T) {
	ctx := context.Background()
	window := 15 * time.Minute

	l, now := newTestLimiter(t)

	l.RecordAttempt(ctx, "idle", window)

	for i := 0; i < 3; i++ {
		l.RecordAttempt(ctx, "blocked", window)
	}
	l.Check(ctx, "blocked", 3, window)

	*now = now.Add(IdleRetention + time.Minute)
	l.RecordAttempt(ctx, "fresh", window)

	l.Cleanup(ctx)

	l.mu.Lock()
	_, idleKept := l.records["idle"]
	_, blockedKept := l.records["blocked"]
	_, freshKept := l.records["fresh"]
	l.mu.Unlock()

	if idleKept {
		t.Error("expected idle key to be removed")
	}
	if blockedKept {
		t.Error("expected blocked key to be removed once its block expired")
	}
	if !freshKept {
		t.Error("expected fresh key to be retained")
	}
}

func TestMemoryLimiter_CleanupKeepsActiveBlocks(t *testing.T) {
	ctx := context.Background()
	window := time.Minute

	l, now := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		l.RecordAttempt(ctx, "blocked", window)
	}
	l.Check(ctx, "blocked", 3, window)

	*now = now.Add(10 * time.Minute)
	l.Cleanup(ctx)

	if !l.IsBlocked(ctx, "blocked") {
		t.Error("expected cleanup to retain a key with an active block")
	}
}

func TestMemoryLimiter_Concurrency(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter()
	defer l.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.RecordAttempt(ctx, "shared", time.Minute)
			l.Check(ctx, "shared", 100, time.Minute)
		}()
	}
	wg.Wait()

	result := l.Check(ctx, "shared", 100, time.Minute)
	if result.TotalAttempts != 50 {
		t.Errorf("expected 50 recorded attempts, got %d", result.TotalAttempts)
	}
}
