package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys so that a retried
// write (for example a harvest POST resent after a timeout) is not applied
// to the stock ledger twice.
type IdempotencyStore interface {
	// Reserve claims the key for ttl.
	// Returns false when the key is already held by an earlier request.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the key so that the request may be retried,
	// used when the original request failed without side effects.
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}
