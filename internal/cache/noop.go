package cache

import (
	"context"
	"time"
)

// Noop never stores anything; every Get misses. Used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) {
	return nil, ErrMiss
}

func (Noop) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (Noop) Delete(context.Context, ...string) error {
	return nil
}

func (Noop) Ping(context.Context) error {
	return nil
}
