package otp

import (
	"context"
	"time"
)

// Record is the per-contact passcode state held in the store between
// issue and consumption.
type Record struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	Attempts  int       `json:"attempts"`
}

// Store is a key-value store with TTL semantics. Expiry is enforced by
// the backend's TTL plus an expires-at check on read, so verification is
// testable without wall-clock waits and the state survives in redis for
// multi-process deployments.
type Store interface {
	Put(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, key string) (Record, bool, error)
	Delete(ctx context.Context, key string) error
}
