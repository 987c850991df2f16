package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// mapCache is an in-memory CacheService for testing
type mapCache struct {
	values map[string][]byte
}

var _ CacheService = (*mapCache)(nil)

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string][]byte)}
}

func (m *mapCache) Get(key string) ([]byte, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mapCache) Set(key string, value []byte, _ time.Duration) error {
	m.values[key] = value
	return nil
}

func (m *mapCache) Delete(key string) error {
	delete(m.values, key)
	return nil
}

func TestRateGuard(t *testing.T) {
	guard := NewRateGuard(newMapCache())

	assert.False(t, guard.Blocked("steam"))

	assert.NoError(t, guard.Block("steam", 500*time.Second))
	assert.True(t, guard.Blocked("steam"))
	assert.False(t, guard.Blocked("gog"))
}

func TestRateGuardNilCache(t *testing.T) {
	// A guard without a backing cache never blocks and never errors.
	guard := NewRateGuard(nil)
	assert.False(t, guard.Blocked("steam"))
	assert.NoError(t, guard.Block("steam", time.Second))
}

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	// Create a memcache client
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err = mc.Set("test_key", []byte("test_value"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	// Delete the value
	err = mc.Delete("test_key")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("test_key")
	assert.Error(t, err)
}
