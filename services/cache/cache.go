package cache

import (
	"fmt"
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// RateGuard tracks per-source fetch blocks so a rate-limited storefront
// is not hammered again before its block window expires.
type RateGuard struct {
	cache CacheService
}

// NewRateGuard creates a rate guard over a cache service
func NewRateGuard(cache CacheService) *RateGuard {
	return &RateGuard{cache: cache}
}

// Blocked reports whether the source is inside a block window
func (g *RateGuard) Blocked(source string) bool {
	if g == nil || g.cache == nil {
		return false
	}
	_, err := g.cache.Get(blockKey(source))
	return err == nil
}

// Block marks the source as rate limited for the given duration
func (g *RateGuard) Block(source string, d time.Duration) error {
	if g == nil || g.cache == nil {
		return nil
	}
	value := []byte(fmt.Sprintf("%d", int(d.Seconds())))
	return g.cache.Set(blockKey(source), value, d)
}

func blockKey(source string) string {
	return "rate_limited:" + source
}
