package repository

import (
	"context"

	"Gourmet-App/internal/domain/model"
)

// DetailsProvider POIを詳細レコード（営業時間・写真・レビューなど）に解決する
type DetailsProvider interface {
	// ResolveByNameNear 名前と位置バイアスで候補を検索し、見つかったプレイスIDで詳細を取得する
	ResolveByNameNear(ctx context.Context, name string, lat, lon float64) (*model.PlaceDetails, error)

	// ResolveByID 外部プレイスIDで詳細を取得する
	ResolveByID(ctx context.Context, placeID string) (*model.PlaceDetails, error)

	// PhotoURLs 写真ハンドルを絶対URLへ解決する（最大max件）
	PhotoURLs(handles []string, max int) []string
}
