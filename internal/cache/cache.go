// Package cache is the read-through TTL cache shared by the reputation and resolution engines.
package cache

//go:generate mockgen -source=cache.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache miss")

	// ErrUnavailable wraps backend connectivity failures.
	ErrUnavailable = errors.New("cache unavailable")
)

// Cache stores opaque values by string key with a per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}

// Observer receives hit/miss notifications per key namespace.
type Observer interface {
	CacheHit(namespace string)
	CacheMiss(namespace string)
}

// Key namespaces.
const (
	NamespaceScore  = "score"
	NamespaceName   = "name"
	NamespacePhone  = "phone"
	NamespaceDetail = "detail"
)

// ScoreKey is the reputation score entry for a normalized phone number.
func ScoreKey(phone string) string {
	return NamespaceScore + ":" + phone
}

// NameKey is the name-search entry. The requester is part of the key because contact
// candidates are limited to the requester's own address book.
func NameKey(requesterID uuid.UUID, query string) string {
	return NamespaceName + ":" + requesterID.String() + ":" + strings.ToLower(strings.TrimSpace(query))
}

// PhoneKey is the phone-search entry.
func PhoneKey(phone string) string {
	return NamespacePhone + ":" + strings.ToLower(strings.TrimSpace(phone))
}

// DetailKey is the person-detail entry.
func DetailKey(phone string) string {
	return NamespaceDetail + ":" + strings.ToLower(strings.TrimSpace(phone))
}

type nopObserver struct{}

func (nopObserver) CacheHit(string) {}
func (nopObserver) CacheMiss(string) {}
