package common

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache is a process-local TTL store shared by the services. Records are
// stored by value so a reader cannot mutate what another reader sees.
type Cache struct {
	store *cache.Cache
}

func NewCache(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{store: cache.New(ttl, cleanupInterval)}
}

// Set stores value under the cache-wide TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) SetTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *Cache) Has(key string) bool {
	_, ok := c.store.Get(key)
	return ok
}

func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

func (c *Cache) Flush() {
	c.store.Flush()
}

// CacheGet returns the value under key when it is present and of type T.
// A nil cache always misses.
func CacheGet[T any](c *Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}

	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}

	t, ok := v.(T)
	return t, ok
}

// CacheKeyBlogByUserID is safe to cache for long periods: a user's blog never changes once created.
func CacheKeyBlogByUserID(id int) string {
	return "blog_by_user:" + strconv.Itoa(id)
}

func CacheKeyUserByAccessToken(token []byte) string {
	return "user_by_access_token:" + string(token)
}

// CacheKeySeenEvent marks an outbox event the mailer has already handled.
func CacheKeySeenEvent(eventID string) string {
	return "seen_event:" + eventID
}
