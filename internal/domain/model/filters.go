package model

// Filters 一覧の絞り込み条件
type Filters struct {
	Liked      bool `json:"liked"`
	Reviewed   bool `json:"reviewed"`
	DistanceKm int  `json:"distanceKm"`
}

// DefaultFilters 初期表示の絞り込み条件
func DefaultFilters() Filters {
	return Filters{DistanceKm: DefaultDistanceKm}
}

// Normalize 距離を 1..10 km に丸める（0は既定値）
func (f Filters) Normalize() Filters {
	switch {
	case f.DistanceKm == 0:
		f.DistanceKm = DefaultDistanceKm
	case f.DistanceKm < MinDistanceKm:
		f.DistanceKm = MinDistanceKm
	case f.DistanceKm > MaxDistanceKm:
		f.DistanceKm = MaxDistanceKm
	}
	return f
}

// RadiusMeters 検索半径（メートル）
func (f Filters) RadiusMeters() int {
	return f.Normalize().DistanceKm * 1000
}

// Match POIが絞り込み条件を満たすか
func (f Filters) Match(p *PointOfInterest) bool {
	if f.Liked && !p.IsLiked {
		return false
	}
	if f.Reviewed && !p.IsReviewed {
		return false
	}
	return true
}
