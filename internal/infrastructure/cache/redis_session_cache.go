package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
)

// RedisSessionCache 複数インスタンスで共有するセッションキャッシュ
type RedisSessionCache struct {
	client *redis.Client
	prefix string
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client, prefix: "gourmet:"}
}

func (c *RedisSessionCache) Get(ctx context.Context, key string) (*model.CachedPOIs, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("⚠️ Redisからの読み込みに失敗")
		}
		return nil, false
	}
	var entry model.CachedPOIs
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("⚠️ キャッシュエントリが不正な形式です")
		return nil, false
	}
	return &entry, true
}

func (c *RedisSessionCache) Set(ctx context.Context, key string, entry *model.CachedPOIs, ttl time.Duration) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("⚠️ Redisへの書き込みに失敗")
	}
}
