package model

// InitSessionRequest セッション初期化リクエスト
type InitSessionRequest struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Filters Filters  `json:"filters"`
}

// Position 位置が指定されていれば返す
func (r *InitSessionRequest) Position() *LatLon {
	if r.Lat == nil || r.Lon == nil {
		return nil
	}
	return &LatLon{Lat: *r.Lat, Lon: *r.Lon}
}

// RestaurantListResponse 一覧レスポンス
type RestaurantListResponse struct {
	Restaurants []PointOfInterest `json:"restaurants"`
	Count       int               `json:"count"`
	Filters     Filters           `json:"filters"`
}

// SelectionResponse 詳細表示に渡す内容。Record が nil の場合はタグのみで表示する
type SelectionResponse struct {
	Record       *Restaurant     `json:"record"`
	FallbackName string          `json:"fallback_name"`
	Point        PointOfInterest `json:"point"`
	State        string          `json:"state"`
}

// LikeRequest 初回いいね時の最小ペイロード（任意）
type LikeRequest struct {
	Restaurant *MinimalRestaurant `json:"restaurant,omitempty"`
}
