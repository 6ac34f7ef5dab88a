// Package cachemanager caches loaded registration data in memory so that
// repeated tree rebuilds within the TTL do not hit the database.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager is the store behind ReadThroughCache. The registration
// service keys it by show id and stores that show's registrations, so a
// regrouping or a toggle-heavy session rebuilds the tree from memory.
type CacheManager[K comparable, V any] interface {
	// Get returns the show's cached registrations, if present and not expired.
	Get(ctx context.Context, key K) (V, bool)
	// GetWithRefresh is Get that also pushes the entry's expiry out by ttl,
	// keeping the show on screen warm while the user browses it.
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	// Set stores a freshly loaded show. A zero ttl uses the cache default.
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	// Delete drops the given shows, e.g. after an import touched them.
	Delete(ctx context.Context, keys ...K) error
	// Flush drops every show, e.g. when the database file changed on disk.
	Flush(ctx context.Context) error
}
