package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
)

// MemcachedSessionCache memcachedを使ったセッションキャッシュ
type MemcachedSessionCache struct {
	client *memcache.Client
}

func NewMemcachedSessionCache(client *memcache.Client) *MemcachedSessionCache {
	return &MemcachedSessionCache{client: client}
}

func (c *MemcachedSessionCache) Get(ctx context.Context, key string) (*model.CachedPOIs, bool) {
	item, err := c.client.Get(memcacheKey(key))
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ memcachedからの読み込みに失敗")
		}
		return nil, false
	}
	var entry model.CachedPOIs
	if err := json.Unmarshal(item.Value, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (c *MemcachedSessionCache) Set(ctx context.Context, key string, entry *model.CachedPOIs, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	item := &memcache.Item{Key: memcacheKey(key), Value: raw, Expiration: int32(ttl / time.Second)}
	if err := c.client.Set(item); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("⚠️ memcachedへの書き込みに失敗")
	}
}

// memcacheKey 名前空間付きのキー
func memcacheKey(key string) string {
	return "gourmet:" + key
}
