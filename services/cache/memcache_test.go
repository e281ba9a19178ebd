package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemcacheService(t *testing.T) {
	probe := memcache.New("localhost:11211")
	if err := probe.Ping(); err != nil {
		t.Skip("memcached is not available, skipping test")
	}

	svc := NewMemcacheService("localhost:11211")
	key := "test:cardscraper:blocked"
	svc.Delete(key)

	// Absent keys report a miss, same as the in-process cache.
	_, err := svc.Get(key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, svc.Set(key, []byte("2026-08-29T10:00:00Z"), time.Minute))

	value, err := svc.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("2026-08-29T10:00:00Z"), value)

	require.NoError(t, svc.Delete(key))
	require.NoError(t, svc.Delete(key))
}
