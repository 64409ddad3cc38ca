package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ElementType OSM要素の種類（node / way / relation）
type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// LatLon 緯度経度を表す基本的な型
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RawPOI POIソースから返される生の要素
type RawPOI struct {
	ID     int64             `json:"id"`
	Type   ElementType       `json:"type"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *LatLon           `json:"center,omitempty"` // way / relation の重心
	Tags   map[string]string `json:"tags,omitempty"`
}

// Coordinate 要素自身の座標、なければ重心を返す
func (r RawPOI) Coordinate() (LatLon, bool) {
	if r.Lat != nil && r.Lon != nil {
		return LatLon{Lat: *r.Lat, Lon: *r.Lon}, true
	}
	if r.Center != nil {
		return *r.Center, true
	}
	return LatLon{}, false
}

// Kilometers 距離（km）。座標不明の場合は +Inf で、JSONでは null になる
type Kilometers float64

// Unknown 座標不明を表す距離
func Unknown() Kilometers {
	return Kilometers(math.Inf(1))
}

// IsUnknown 距離が計算できなかったか
func (k Kilometers) IsUnknown() bool {
	return math.IsInf(float64(k), 0) || math.IsNaN(float64(k))
}

func (k Kilometers) MarshalJSON() ([]byte, error) {
	if k.IsUnknown() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(k))
}

func (k *Kilometers) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*k = Unknown()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*k = Kilometers(v)
	return nil
}

// PointOfInterest 地図・リストに表示するレストラン
type PointOfInterest struct {
	Type       ElementType       `json:"type"`
	ExternalID int64             `json:"id"`
	Name       string            `json:"name,omitempty"`       // 空は「名前なし」
	Coordinate *LatLon           `json:"coordinate,omitempty"` // マーカー表示に必要
	Tags       map[string]string `json:"tags,omitempty"`
	DistanceKm Kilometers        `json:"distance_km"`
	DocID      string            `json:"doc_id,omitempty"`
	IsLiked    bool              `json:"is_liked"`
	IsReviewed bool              `json:"is_reviewed"`
}

// DocID 永続化キーを生成する。外部コンシューマもこの形式に依存している
func DocID(elementType ElementType, externalID int64) string {
	return fmt.Sprintf("osm_%s_%d", elementType, externalID)
}

// ComputeDocID POIの永続化キー
func (p *PointOfInterest) ComputeDocID() string {
	return DocID(p.Type, p.ExternalID)
}

// HasName 名前が設定されているか
func (p *PointOfInterest) HasName() bool {
	return strings.TrimSpace(p.Name) != ""
}

// Tag タグの値を返す（存在しなければ空文字列）
func (p *PointOfInterest) Tag(key string) string {
	if p.Tags == nil {
		return ""
	}
	return p.Tags[key]
}

// CachedPOIs セッションキャッシュに保存されるPOIソースの結果
type CachedPOIs struct {
	Elements []RawPOI `json:"elements"`
	StoredAt int64    `json:"stored_at"` // unix millis
}
