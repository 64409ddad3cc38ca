package repository

import (
	"context"
	"time"

	"Gourmet-App/internal/domain/model"
)

// SessionCache POIソースのフォールバック用キャッシュ
type SessionCache interface {
	Get(ctx context.Context, key string) (*model.CachedPOIs, bool)
	Set(ctx context.Context, key string, entry *model.CachedPOIs, ttl time.Duration)
}
