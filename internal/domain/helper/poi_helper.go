package helper

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"Gourmet-App/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の大円距離を計算する (km)
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180
	dLat := rLat2 - rLat1
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// ToPoint LatLon を orb.Point ([lon, lat]) に変換
func ToPoint(p model.LatLon) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// SearchBound 中心から半径 radiusMeters を覆う境界ボックス
func SearchBound(lat, lon float64, radiusMeters int) orb.Bound {
	return geo.NewBoundAroundPoint(orb.Point{lon, lat}, float64(radiusMeters))
}

// ToPointOfInterest 生の要素をPOIに変換し、基準点からの距離を計算する
func ToPointOfInterest(raw model.RawPOI, originLat, originLon float64) model.PointOfInterest {
	poi := model.PointOfInterest{
		Type:       raw.Type,
		ExternalID: raw.ID,
		Tags:       raw.Tags,
		DistanceKm: model.Unknown(),
	}
	if raw.Tags != nil {
		poi.Name = raw.Tags["name"]
	}
	if coord, ok := raw.Coordinate(); ok {
		c := coord
		poi.Coordinate = &c
		poi.DistanceKm = model.Kilometers(HaversineDistance(originLat, originLon, c.Lat, c.Lon))
	}
	poi.DocID = poi.ComputeDocID()
	return poi
}

// MapElements 生の要素をまとめて変換する（入力順を保持）
func MapElements(raws []model.RawPOI, originLat, originLon float64) []model.PointOfInterest {
	pois := make([]model.PointOfInterest, 0, len(raws))
	for _, raw := range raws {
		pois = append(pois, ToPointOfInterest(raw, originLat, originLon))
	}
	return pois
}

// SortByDistance 距離の昇順で安定ソートする（距離不明は末尾）
func SortByDistance(pois []model.PointOfInterest) {
	sort.SliceStable(pois, func(i, j int) bool {
		di, dj := pois[i].DistanceKm, pois[j].DistanceKm
		if di.IsUnknown() {
			return false
		}
		if dj.IsUnknown() {
			return true
		}
		return di < dj
	})
}

// FilterPOIs 絞り込み条件に一致するPOIのみを返す
func FilterPOIs(pois []model.PointOfInterest, filters model.Filters) []model.PointOfInterest {
	filtered := make([]model.PointOfInterest, 0, len(pois))
	for i := range pois {
		if filters.Match(&pois[i]) {
			filtered = append(filtered, pois[i])
		}
	}
	return filtered
}

// WithinRadius 半径内の要素のみを返す（座標不明は除外）
func WithinRadius(raws []model.RawPOI, lat, lon float64, radiusMeters int) []model.RawPOI {
	limitKm := float64(radiusMeters) / 1000
	var result []model.RawPOI
	for _, raw := range raws {
		coord, ok := raw.Coordinate()
		if !ok {
			continue
		}
		if HaversineDistance(lat, lon, coord.Lat, coord.Lon) <= limitKm {
			result = append(result, raw)
		}
	}
	return result
}
