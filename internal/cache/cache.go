// Package cache holds serialized analysis results keyed by property and
// year. A miss is never an error; the analyzer simply recomputes.
package cache

import (
	"context"
	"time"
)

// Cache is a string key/value cache with optional expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
