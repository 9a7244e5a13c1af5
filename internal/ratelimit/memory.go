package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local sliding-window limiter.
type Memory struct {
	mu      sync.Mutex
	rule    Rule
	now     func() time.Time
	windows map[string][]time.Time
}

// NewMemory creates a limiter enforcing rule.
func NewMemory(rule Rule) *Memory {
	return NewMemoryWithClock(rule, time.Now)
}

// NewMemoryWithClock is NewMemory with an injectable clock.
func NewMemoryWithClock(rule Rule, now func() time.Time) *Memory {
	return &Memory{rule: rule, now: now, windows: make(map[string][]time.Time)}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	if !m.rule.Enabled() {
		return Result{Allowed: true}, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	stamps := prune(m.windows[key], now.Add(-m.rule.Window))

	if int64(len(stamps)) >= m.rule.Limit {
		m.windows[key] = stamps
		return Result{Allowed: false, RetryIn: stamps[0].Add(m.rule.Window).Sub(now)}, nil
	}
	stamps = append(stamps, now)
	m.windows[key] = stamps
	return Result{Allowed: true, Remaining: m.rule.Limit - int64(len(stamps))}, nil
}

// Len returns the number of keys currently tracked.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for key, stamps := range m.windows {
		if len(prune(stamps, now.Add(-m.rule.Window))) == 0 {
			delete(m.windows, key)
		}
	}
	return len(m.windows)
}

// prune drops timestamps at or before cutoff. Timestamps are kept in ascending order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(stamps); i++ {
		if stamps[i].After(cutoff) {
			break
		}
	}
	return stamps[i:]
}
