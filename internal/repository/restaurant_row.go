package repository

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"

	"Gourmet-App/internal/domain/model"
)

// restaurantRow restaurantsテーブル（OSMから取り込んだレストラン）の1行
type restaurantRow struct {
	OSMType string          `json:"osm_type"`
	OSMID   int64           `json:"osm_id"`
	Lat     *float64        `json:"lat"`
	Lon     *float64        `json:"lon"`
	Tags    json.RawMessage `json:"tags"`
}

// toRawPOI POIソースの生の要素に変換する
func (r restaurantRow) toRawPOI() (model.RawPOI, error) {
	raw := model.RawPOI{
		ID:   r.OSMID,
		Type: model.ElementType(r.OSMType),
	}
	switch raw.Type {
	case model.ElementNode, model.ElementWay, model.ElementRelation:
	default:
		return model.RawPOI{}, fmt.Errorf("未知のOSM要素種別: %q", r.OSMType)
	}

	if r.Lat != nil && r.Lon != nil {
		point := orb.Point{*r.Lon, *r.Lat}
		if raw.Type == model.ElementNode {
			lat, lon := point.Lat(), point.Lon()
			raw.Lat, raw.Lon = &lat, &lon
		} else {
			raw.Center = &model.LatLon{Lat: point.Lat(), Lon: point.Lon()}
		}
	}

	if len(r.Tags) > 0 && string(r.Tags) != "null" {
		if err := json.Unmarshal(r.Tags, &raw.Tags); err != nil {
			return model.RawPOI{}, fmt.Errorf("tags JSONBパースエラー: %w", err)
		}
	}
	return raw, nil
}

func rowsToRawPOIs(rows []restaurantRow) ([]model.RawPOI, error) {
	elements := make([]model.RawPOI, 0, len(rows))
	for _, row := range rows {
		raw, err := row.toRawPOI()
		if err != nil {
			return nil, err
		}
		elements = append(elements, raw)
	}
	return elements, nil
}
