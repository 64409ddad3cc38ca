package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"Gourmet-App/internal/domain/model"
)

// MemorySessionCache プロセス内のセッションキャッシュ
type MemorySessionCache struct {
	cache *gocache.Cache
}

// NewMemorySessionCache 既定TTLで期限切れエントリを定期的に掃除する
func NewMemorySessionCache(defaultTTL time.Duration) *MemorySessionCache {
	return &MemorySessionCache{cache: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *MemorySessionCache) Get(ctx context.Context, key string) (*model.CachedPOIs, bool) {
	x, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	entry, ok := x.(*model.CachedPOIs)
	return entry, ok
}

func (c *MemorySessionCache) Set(ctx context.Context, key string, entry *model.CachedPOIs, ttl time.Duration) {
	c.cache.Set(key, entry, ttl)
}
