// Package sessioncache keeps live session tokens close to the HTTP layer so
// authenticated requests can skip the database round-trip.
package sessioncache

import (
	"context"
	"time"
)

// Cache maps a session token to its user. Lookup reports ok=false on a miss;
// callers fall back to the store.
type Cache interface {
	Put(ctx context.Context, token, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (userID string, ok bool, err error)
	Evict(ctx context.Context, token string) error
}

// Nop is used when no Redis address is configured. Every lookup misses.
type Nop struct{}

func (Nop) Put(context.Context, string, string, time.Duration) error { return nil }

func (Nop) Lookup(context.Context, string) (string, bool, error) { return "", false, nil }

func (Nop) Evict(context.Context, string) error { return nil }
