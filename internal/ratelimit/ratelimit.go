// Package ratelimit throttles callers with a sliding window per key.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps limiter backend failures.
var ErrUnavailable = errors.New("rate limiter unavailable")

// Result is the outcome of one Allow call.
type Result struct {
	Allowed   bool
	Remaining int64
	// RetryIn is how long the caller should wait before the next attempt fits the window.
	RetryIn time.Duration
}

// Limiter admits at most a fixed number of requests per key within a rolling window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Rule is the limit applied to every key.
type Rule struct {
	Limit  int64
	Window time.Duration
}

// Enabled reports whether the rule throttles anything.
func (r Rule) Enabled() bool {
	return r.Limit > 0 && r.Window > 0
}
