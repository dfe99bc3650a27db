package ratelimit

import (
	"context"
	"time"
)

const (
	// BlockDuration is the penalty applied once a key exhausts its attempts.
	// It is fixed on purpose: the abuse window is caller-tunable, the
	// punishment is not, so an attacker cannot shrink it by probing with
	// small windows.
	BlockDuration = 15 * time.Minute

	// IdleRetention is how long an idle, unblocked key is kept before the
	// cleanup pass drops it
	IdleRetention = time.Hour
)

// Result is the decision record returned by Check. The limiter never fails;
// this is its only signal.
type Result struct {
	Allowed           bool
	RemainingAttempts int
	ResetTime         time.Time
	TotalAttempts     int
}

// Limiter is a generic per-key sliding-window abuse-control primitive with an
// escalating hard block. It has no knowledge of authentication semantics.
//
// The in-memory implementation is one interchangeable backing store; the
// Redis implementation serves multi-instance deployments behind the same
// contract.
type Limiter interface {
	// Check prunes attempts older than window, then reports whether another
	// attempt is allowed. Reaching maxAttempts installs a BlockDuration
	// block; while blocked the key reports zero remaining attempts
	// regardless of recorded timestamps. maxAttempts <= 0 always denies.
	Check(ctx context.Context, key string, maxAttempts int, window time.Duration) Result

	// RecordAttempt registers one attempt for the key, pruning entries
	// older than window first
	RecordAttempt(ctx context.Context, key string, window time.Duration)

	// Reset clears the key's attempt history and any active block
	Reset(ctx context.Context, key string)

	// IsBlocked reports whether the key currently has an active block
	IsBlocked(ctx context.Context, key string) bool

	// Cleanup drops keys with no attempts inside IdleRetention and no
	// active block. A blocked key is retained until its block expires,
	// even when idle.
	Cleanup(ctx context.Context)
}
