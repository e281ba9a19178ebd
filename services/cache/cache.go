// Package cache provides the small keyed cooldown cache the scraper
// uses to remember that the target site blocked it, so back-to-back
// runs fail fast instead of hammering a site that already said no.
package cache

import (
	"time"
)

// CacheService represents a generic expiring key-value cache
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
