package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document RecordStoreに保存される任意のJSONドキュメント
type Document map[string]interface{}

// StoredDocument ID付きのドキュメント（クエリ結果）
type StoredDocument struct {
	ID   string
	Data Document
}

// FieldFilter 等価条件でのクエリ条件
type FieldFilter struct {
	Field string
	Value interface{}
}

// LatLng 永続化レコードの位置情報
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ServiceFlags 提供サービス（未知の場合はfalse）
type ServiceFlags struct {
	Breakfast  bool `json:"breakfast"`
	Lunch      bool `json:"lunch"`
	Dinner     bool `json:"dinner"`
	Vegetarian bool `json:"vegetarian"`
	Reservable bool `json:"reservable"`
	Delivery   bool `json:"delivery"`
	DineIn     bool `json:"dineIn"`
	Takeout    bool `json:"takeout"`
	Wheelchair bool `json:"wheelchair"`
}

// ReviewSummary 詳細プロバイダのレビュー要約
type ReviewSummary struct {
	Author       string `json:"author"`
	Rating       int    `json:"rating"`
	Text         string `json:"text"`
	RelativeTime string `json:"relativeTime"`
}

// Restaurant Restaurantコレクションに保存される詳細付きレコード
type Restaurant struct {
	Name             string          `json:"name"`
	ExternalPlaceID  *string         `json:"externalPlaceId"`
	FormattedAddress string          `json:"formatted_address"`
	Phone            string          `json:"phone"`
	Website          string          `json:"website"`
	Cuisine          string          `json:"cuisine"` // 作成時にタグからコピー、更新しない
	OpeningHours     []string        `json:"openingHoursWeekdayText"`
	OpenNow          *bool           `json:"openNow"` // nil = 不明
	Rating           *float64        `json:"rating"`
	RatingCount      int             `json:"ratingCount"`
	PriceLevel       *int            `json:"priceLevel"`
	Reviews          []ReviewSummary `json:"reviews"`
	ServiceFlags     ServiceFlags    `json:"serviceFlags"`
	Photos           []string        `json:"photos"` // 解決済みURLのみ。プロバイダのハンドルは保存しない
	Location         LatLng          `json:"location"`
	Liked            []string        `json:"liked,omitempty"`
	SavedAt          string          `json:"savedAt"`
}

// PlaceID 外部プレイスIDを返す（未設定なら空文字列）
func (r *Restaurant) PlaceID() string {
	if r.ExternalPlaceID != nil {
		return *r.ExternalPlaceID
	}
	return ""
}

// SavedTime savedAt をパースする
func (r *Restaurant) SavedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.SavedAt)
}

// IsFresh 鮮度しきい値内で写真を1枚以上持つか
func (r *Restaurant) IsFresh(now time.Time) bool {
	saved, err := r.SavedTime()
	if err != nil {
		return false
	}
	return now.Sub(saved) < StalenessThreshold && len(r.Photos) > 0
}

// LikedBy 指定ユーザーがいいね済みか
func (r *Restaurant) LikedBy(userID string) bool {
	for _, id := range r.Liked {
		if id == userID {
			return true
		}
	}
	return false
}

// ToDocument マージ保存用のドキュメントに変換する。
// liked はアトミックな配列操作でのみ更新するため含めない
func (r *Restaurant) ToDocument() (Document, error) {
	doc, err := toDocument(r)
	if err != nil {
		return nil, err
	}
	delete(doc, "liked")
	return doc, nil
}

// RestaurantFromDocument ドキュメントからRestaurantを復元する
func RestaurantFromDocument(doc Document) (*Restaurant, error) {
	var r Restaurant
	if err := fromDocument(doc, &r); err != nil {
		return nil, fmt.Errorf("Restaurantドキュメントの変換に失敗: %w", err)
	}
	return &r, nil
}

// MinimalRestaurant 初回いいね時にドキュメントを作成するための最小ペイロード
type MinimalRestaurant struct {
	Name     string  `json:"name"`
	Cuisine  string  `json:"cuisine,omitempty"`
	Location *LatLng `json:"location,omitempty"`
}

// ToDocument 最小ペイロードをドキュメントに変換する
func (m *MinimalRestaurant) ToDocument() Document {
	doc := Document{"name": m.Name}
	if m.Cuisine != "" {
		doc["cuisine"] = m.Cuisine
	}
	if m.Location != nil {
		doc["location"] = map[string]interface{}{"lat": m.Location.Lat, "lng": m.Location.Lng}
	}
	return doc
}

func toDocument(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc Document, v interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
