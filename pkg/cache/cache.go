// Package cache provides pluggable storage backends for HTTP response caching.
//
// Resolution itself never requires caching; backends exist so repeated runs
// against the same registry can skip network round-trips when the user opts
// in. Three backends are provided:
//   - NullCache: no-op, the default (resolution always hits the network)
//   - FileCache: on-disk entries for CLI usage
//   - RedisCache: shared cache for server deployments
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all storage backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Expired entries are treated as misses. A zero ttl passed to Set means the
// entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
