package model

// PlaceDetails 詳細プロバイダから取得したレコード（プロバイダ固有の名前は変換済み）
type PlaceDetails struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Phone            string
	Website          string
	WeekdayText      []string // nil = プロバイダが値を返さなかった
	OpenNow          *bool
	Rating           *float64
	RatingCount      int
	PriceLevel       *int
	Reviews          []ReviewSummary
	ServiceFlags     ServiceFlags
	PhotoHandles     []string // プロバイダのセッションに紐づくハンドル。保存前にURLへ解決する
	Location         *LatLng
}
