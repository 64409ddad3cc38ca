package model

import "time"

// コレクション名（外部コンシューマと共有する）
const (
	CollectionRestaurant = "Restaurant"
	CollectionUser       = "User"
	CollectionReviews    = "Reviews"
)

// ドキュメントのフィールド名
const (
	FieldLiked            = "liked"
	FieldLikedRestaurants = "likedRestaurants"
	FieldAuthorID         = "authorId"
	FieldRestaurantID     = "restaurantId"
)

const (
	// StalenessThreshold これより古いレコードは参照時にベストエフォートで更新する
	StalenessThreshold = 48 * time.Hour

	MaxPhotos           = 5
	PhotoMaxWidth       = 800
	PhotoMaxHeight      = 600
	FindPlaceBiasMeters = 2000
)

// POIソースのタイムアウトとキャッシュ
const (
	POIFirstAttemptTimeout = 12 * time.Second
	POIRetryTimeout        = 16 * time.Second
	POIRetryBackoff        = 300 * time.Millisecond
	POICacheTTL            = 10 * time.Minute
)

// DetailsReadinessTimeout 詳細プロバイダの準備完了待ちの既定値
const DetailsReadinessTimeout = 5 * time.Second

// 絞り込み距離（km）
const (
	MinDistanceKm     = 1
	MaxDistanceKm     = 10
	DefaultDistanceKm = 5
)

// レビュー評価の範囲
const (
	MinRating = 1
	MaxRating = 5
)

// UnnamedRestaurant 名前のないPOIの表示名
const UnnamedRestaurant = "Unnamed restaurant"
