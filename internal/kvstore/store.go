// Package kvstore defines the shared state store capability: a keyed store
// with TTL, glob pattern deletion, and publish/subscribe on named channels.
// It is the only cross-process shared mutable resource in the platform.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kvstore: key not found")

// Subscription delivers messages published on one channel.
type Subscription interface {
	// Messages is closed when the subscription ends.
	Messages() <-chan string
	Close() error
}

// Store is the capability interface handed to components by construction.
// All operations are single-key or pattern-scoped; there are no transactions.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) (Subscription, error)
	Close() error
}
