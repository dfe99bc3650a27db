package ratelimit

import (
	"context"
	"sync"
	"time"
)

const janitorInterval = 10 * time.Minute

// record tracks the state of a single key
type record struct {
	attempts     []time.Time
	blockedUntil time.Time
	blockedCount int // attempt count captured when the block was installed
}

// MemoryLimiter is the process-local Limiter implementation. All access to
// the key map is serialized through one mutex: request handlers run on
// separate goroutines, so the per-key records must not be mutated without it.
type MemoryLimiter struct {
	mu      sync.Mutex
	records map[string]*record
	stop    chan struct{}

	now func() time.Time // swapped in tests
}

// NewMemoryLimiter creates a memory limiter and starts its janitor goroutine.
// Call Stop when the limiter is no longer needed.
func NewMemoryLimiter() *MemoryLimiter {
	l := &MemoryLimiter{
		records: make(map[string]*record),
		stop:    make(chan struct{}),
		now:     time.Now,
	}

	go l.janitor()

	return l
}

// Check implements Limiter
func (l *MemoryLimiter) Check(_ context.Context, key string, maxAttempts int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec := l.get(key)
	rec.prune(now, window)

	if rec.blockedUntil.After(now) {
		return Result{
			Allowed:           false,
			RemainingAttempts: 0,
			ResetTime:         rec.blockedUntil,
			TotalAttempts:     rec.blockedCount,
		}
	}

	count := len(rec.attempts)

	if maxAttempts <= 0 {
		return Result{
			Allowed:           false,
			RemainingAttempts: 0,
			ResetTime:         now.Add(window),
			TotalAttempts:     count,
		}
	}

	if count >= maxAttempts {
		rec.blockedUntil = now.Add(BlockDuration)
		rec.blockedCount = count
		return Result{
			Allowed:           false,
			RemainingAttempts: 0,
			ResetTime:         rec.blockedUntil,
			TotalAttempts:     count,
		}
	}

	return Result{
		Allowed:           true,
		RemainingAttempts: maxAttempts - count,
		ResetTime:         now.Add(window),
		TotalAttempts:     count,
	}
}

// RecordAttempt implements Limiter
func (l *MemoryLimiter) RecordAttempt(_ context.Context, key string, window time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec := l.get(key)
	rec.prune(now, window)
	rec.attempts = append(rec.attempts, now)
}

// Reset implements Limiter
func (l *MemoryLimiter) Reset(_ context.Context, key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.records, key)
}

// IsBlocked implements Limiter
func (l *MemoryLimiter) IsBlocked(_ context.Context, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	return ok && rec.blockedUntil.After(l.now())
}

// Cleanup implements Limiter
func (l *MemoryLimiter) Cleanup(_ context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-IdleRetention)

	for key, rec := range l.records {
		if rec.blockedUntil.After(now) {
			continue
		}
		if len(rec.attempts) == 0 || rec.attempts[len(rec.attempts)-1].Before(cutoff) {
			delete(l.records, key)
		}
	}
}

// Stop stops the janitor goroutine
func (l *MemoryLimiter) Stop() {
	close(l.stop)
}

func (l *MemoryLimiter) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Cleanup(context.Background())
		case <-l.stop:
			return
		}
	}
}

// get returns the record for key, creating it lazily. Caller holds l.mu.
func (l *MemoryLimiter) get(key string) *record {
	rec, ok := l.records[key]
	if !ok {
		rec = &record{}
		l.records[key] = rec
	}
	return rec
}

// prune discards attempts that fell out of the sliding window
func (r *record) prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	i := 0
	for i < len(r.attempts) && !r.attempts[i].After(cutoff) {
		i++
	}
	if i > 0 {
		r.attempts = append(r.attempts[:0], r.attempts[i:]...)
	}
}
