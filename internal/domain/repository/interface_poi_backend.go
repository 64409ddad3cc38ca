package repository

import (
	"context"

	"Gourmet-App/internal/domain/model"
)

// POIBackend 地理空間データソースへの1回分の問い合わせ。
// リトライ・タイムアウト・キャッシュは呼び出し側（service.POISource）が担う
type POIBackend interface {
	QueryRestaurants(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error)
}
