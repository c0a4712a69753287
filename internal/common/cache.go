package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type Cache struct {
	*cache.Cache
}

func NewCache(expirationTime, cleanupTime time.Duration) *Cache {
	return &Cache{cache.New(expirationTime, cleanupTime)}
}

func (c *Cache) Set(key string, value interface{}, expiration ...time.Duration) {
	if len(expiration) > 0 {
		c.Cache.Set(key, value, expiration[0])
		return
	}
	c.Cache.Set(key, value, cache.DefaultExpiration)
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.Cache.Get(key)
}

func (c *Cache) Delete(key string) {
	c.Cache.Delete(key)
}

func (c *Cache) Flush() {
	c.Cache.Flush()
}

func CacheKeyUserByID(id string) string {
	return "user:" + id
}

const CacheKeyBlogStats = "blog_stats"
