package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"opcgsearch/cardscraper/pkg/errors"
)

// MemcacheService implements CacheService on memcached. It holds the
// block-cooldown keys that must outlive a single CLI invocation, so a
// re-run shortly after a hard block fails fast instead of re-fetching.
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService connects to the memcached instance at serverAddr.
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a cooldown value. An absent or expired key is reported
// as ErrCacheMiss, matching the in-process implementation.
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err == memcache.ErrCacheMiss {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, errors.NewCache("memcache", "failed to get "+key, err)
	}
	return item.Value, nil
}

// Set stores a cooldown value with an expiration time.
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
	if err != nil {
		return errors.NewCache("memcache", "failed to set "+key, err)
	}
	return nil
}

// Delete clears a cooldown key. Deleting an absent key is not an error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(key)
	if err != nil && err != memcache.ErrCacheMiss {
		return errors.NewCache("memcache", "failed to delete "+key, err)
	}
	return nil
}
