package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// ReadThrough serves values from a Cache and loads them on a miss. Concurrent misses
// for the same key share a single load.
type ReadThrough struct {
	cache    Cache
	group    singleflight.Group
	observer Observer
}

// NewReadThrough wraps c. A nil cache disables caching; a nil observer drops notifications.
func NewReadThrough(c Cache, observer Observer) *ReadThrough {
	if c == nil {
		c = Noop{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ReadThrough{cache: c, observer: observer}
}

// Cache returns the wrapped backend.
func (rt *ReadThrough) Cache() Cache {
	return rt.cache
}

// Invalidate deletes keys and detaches any load in flight for them, so the next
// Fetch reloads from the store.
func (rt *ReadThrough) Invalidate(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		rt.group.Forget(key)
	}
	if err := rt.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

// Store encodes value and writes it under key, replacing any cached entry.
func (rt *ReadThrough) Store(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := rt.cache.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("populate cache: %w", err)
	}
	return nil
}

// Fetch returns the cached value for key, or runs load, caches its JSON encoding for ttl and
// returns it. Both paths decode the same bytes, so a hit is indistinguishable from the miss
// that populated it. Backend failures other than a miss are returned, never masked.
func Fetch[T any](ctx context.Context, rt *ReadThrough, namespace, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := rt.cache.Get(ctx, key)
	switch {
	case err == nil:
		var out T
		if decodeErr := json.Unmarshal(raw, &out); decodeErr == nil {
			rt.observer.CacheHit(namespace)
			return out, nil
		}
		// An undecodable entry is overwritten by the load below.
	case !errors.Is(err, ErrMiss):
		return zero, fmt.Errorf("read cache: %w", err)
	}
	rt.observer.CacheMiss(namespace)

	v, err, _ := rt.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode cache entry %s: %w", key, err)
		}
		if err := rt.cache.Set(ctx, key, data, ttl); err != nil {
			return nil, fmt.Errorf("populate cache: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(v.([]byte), &out); err != nil {
		return zero, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return out, nil
}
