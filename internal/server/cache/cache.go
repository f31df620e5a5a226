// Package cache provides the response cache used for contact listings.
// Two implementations exist: a Redis-backed one for deployments and an
// in-process one used when no Redis address is configured (and in tests).
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented TTL cache with prefix invalidation. Get returns
// common.ErrorNotFound for missing or expired keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePrefix drops every key starting with prefix. Used to invalidate
	// a whole namespace (e.g. one owner's contact pages) on mutation.
	DeletePrefix(ctx context.Context, prefix string) error
}
