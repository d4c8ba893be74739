// Package cache stores rendered artifacts so identical requests are not
// rendered twice.
//
// Seeded snapshots are deterministic, and raster conversion shells out to an
// external tool, so both are worth keeping. Keys are built with [Key] from
// everything that influences the output.
//
//	key := cache.Key("snapshot", cfg, width, height, count, seed)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
//	data := render()
//	_ = c.Set(ctx, key, data, time.Hour)
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. A zero TTL never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
