package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"Gourmet-App/internal/domain/helper"
	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
	"Gourmet-App/internal/infrastructure/database"
)

// SupabasePOIBackend Supabase REST経由でrestaurantsテーブルを検索する。
// 境界ボックスで絞り込んだ後、半径内かどうかはクライアント側で判定する
type SupabasePOIBackend struct {
	selectInBound func(bound orb.Bound) ([]byte, error)
}

func NewSupabasePOIBackend(client *database.SupabaseClient) repository.POIBackend {
	return &SupabasePOIBackend{
		selectInBound: func(bound orb.Bound) ([]byte, error) {
			data, _, err := client.GetClient().From("restaurants").
				Select("osm_type,osm_id,lat,lon,tags", "", false).
				Gte("lat", formatCoord(bound.Min.Lat())).
				Lte("lat", formatCoord(bound.Max.Lat())).
				Gte("lon", formatCoord(bound.Min.Lon())).
				Lte("lon", formatCoord(bound.Max.Lon())).
				Execute()
			return data, err
		},
	}
}

type selectResult struct {
	data []byte
	err  error
}

// QueryRestaurants postgrestクライアントはctxを受け取らないため、
// 問い合わせは別goroutineで実行しctxの期限・キャンセルで待機を打ち切る
func (r *SupabasePOIBackend) QueryRestaurants(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error) {
	bound := helper.SearchBound(lat, lon, radiusMeters)

	done := make(chan selectResult, 1)
	go func() {
		data, err := r.selectInBound(bound)
		done <- selectResult{data: data, err: err}
	}()

	var res selectResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("周辺レストランデータの取得を中断: %w", ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("周辺レストランデータの取得失敗: %w", res.err)
	}

	var rows []restaurantRow
	if err := json.Unmarshal(res.data, &rows); err != nil {
		return nil, fmt.Errorf("レストランデータのJSONアンマーシャル失敗: %w", err)
	}

	elements, err := rowsToRawPOIs(rows)
	if err != nil {
		return nil, err
	}
	return helper.WithinRadius(elements, lat, lon, radiusMeters), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
