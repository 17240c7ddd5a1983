package shared

import (
	"context"
	"time"
)

// IdempotencyStore records handled event keys so a redelivered event is
// applied once. Keys expire after the ttl given when they were marked.
type IdempotencyStore interface {
	// MarkProcessed atomically claims key, reporting false when another
	// delivery already claimed it.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
