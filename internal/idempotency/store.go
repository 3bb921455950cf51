// Package idempotency remembers lead submission keys so a repeated submit
// of the same draft does not create a second CRM record.
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"
)

const keyPrefix = "lead:idem:"

// DefaultTTL is how long a key is remembered when no TTL is configured
const DefaultTTL = 24 * time.Hour

// ErrEmptyKey is returned for blank keys
var ErrEmptyKey = errors.New("idempotency key is empty")

// Prior describes an earlier submission that used the same key
type Prior struct {
	// Pending is true while the first submission is still being forwarded
	Pending bool
	LeadID  int64
}

// Store tracks submission keys.
//
// Reserve claims the key and returns nil when it was free, or the earlier
// submission otherwise. Complete records the lead id for a reserved key.
// Release frees a reserved key after a failed forward so the user can retry.
type Store interface {
	Reserve(ctx context.Context, key string) (*Prior, error)
	Complete(ctx context.Context, key string, leadID int64) error
	Release(ctx context.Context, key string) error
	Name() string
}

func storageKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return keyPrefix + key, nil
}

func ttlOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}
