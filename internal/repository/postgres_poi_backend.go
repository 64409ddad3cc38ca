package repository

import (
	"context"
	"fmt"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
	"Gourmet-App/internal/infrastructure/database"
)

// PostgresPOIBackend PostGISのrestaurantsテーブルから周辺のレストランを取得する
type PostgresPOIBackend struct {
	client *database.PostgreSQLClient
}

func NewPostgresPOIBackend(client *database.PostgreSQLClient) repository.POIBackend {
	return &PostgresPOIBackend{
		client: client,
	}
}

const nearbyRestaurantsQuery = `
	SELECT
		r.osm_type, r.osm_id,
		ST_Y(r.location::geometry) AS lat,
		ST_X(r.location::geometry) AS lon,
		COALESCE(r.tags, '{}'::jsonb)::text AS tags
	FROM restaurants r
	WHERE ST_DWithin(
		ST_SetSRID(ST_MakePoint($2, $1), 4326)::geography,
		r.location::geography,
		$3
	)
	ORDER BY r.osm_id
`

func (r *PostgresPOIBackend) QueryRestaurants(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error) {
	rows, err := r.client.DB.QueryContext(ctx, nearbyRestaurantsQuery, lat, lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("周辺レストラン検索失敗: %w", err)
	}
	defer rows.Close()

	var results []restaurantRow
	for rows.Next() {
		var (
			row  restaurantRow
			tags string
		)
		if err := rows.Scan(&row.OSMType, &row.OSMID, &row.Lat, &row.Lon, &tags); err != nil {
			return nil, fmt.Errorf("レストランデータスキャンエラー: %w", err)
		}
		row.Tags = []byte(tags)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("レストランデータ読み込みエラー: %w", err)
	}

	return rowsToRawPOIs(results)
}
