package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/helper"
	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
)

// SelectionState POI選択時の解決結果
type SelectionState string

const (
	SelectionCacheHitFresh SelectionState = "cache_hit_fresh"
	SelectionRefreshed     SelectionState = "refreshed"
	SelectionStale         SelectionState = "stale" // 更新に失敗し保存済みレコードをそのまま返した
	SelectionResolved      SelectionState = "resolved"
	SelectionFallback      SelectionState = "fallback"
)

// EnrichmentPipeline POIソース・詳細プロバイダ・RecordStoreを組み合わせて表示用データを作る
type EnrichmentPipeline struct {
	source  POIFetcher
	details repository.DetailsProvider
	store   repository.RecordStore
	clock   Clock
}

// NewEnrichmentPipeline は新しいEnrichmentPipelineを作成
func NewEnrichmentPipeline(source POIFetcher, details repository.DetailsProvider, store repository.RecordStore, clock Clock) *EnrichmentPipeline {
	return &EnrichmentPipeline{
		source:  source,
		details: details,
		store:   store,
		clock:   clock,
	}
}

// LoadNearby 周辺のPOIを距離順に並べ、状態のフラグを付与して返す。
// 表示中リストの置き換えは最新の読み込みかを判定できる呼び出し側（Session）が行う
func (p *EnrichmentPipeline) LoadNearby(ctx context.Context, state *InteractionState, lat, lon float64, radiusMeters int) ([]model.PointOfInterest, error) {
	raws, err := p.source.Fetch(ctx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		log.Info().Float64("lat", lat).Float64("lon", lon).Int("radius", radiusMeters).Msg("🍽️ 周辺にレストランが見つかりませんでした")
		return []model.PointOfInterest{}, nil
	}

	pois := helper.MapElements(raws, lat, lon)
	helper.SortByDistance(pois)
	state.Annotate(pois)

	log.Info().Int("count", len(pois)).Int("radius", radiusMeters).Msg("📍 周辺レストランを取得しました")
	return pois, nil
}

// SelectPoint 詳細表示用のレコードを返す。解決できない場合は nil（タグのみでの表示にフォールバック）
func (p *EnrichmentPipeline) SelectPoint(ctx context.Context, point model.PointOfInterest) (*model.Restaurant, SelectionState) {
	docID := point.ComputeDocID()
	now := p.clock.Now()

	if !point.HasName() || point.Coordinate == nil {
		log.Debug().Str("doc_id", docID).Msg("🏷️ 名前または座標がないためタグ表示にフォールバック")
		return nil, SelectionFallback
	}

	cached := p.loadRecord(ctx, docID)
	if cached != nil && cached.SavedAt != "" {
		if cached.IsFresh(now) {
			log.Debug().Str("doc_id", docID).Msg("✅ キャッシュ済みレコードを使用")
			return cached, SelectionCacheHitFresh
		}
		if refreshed, ok := p.refresh(ctx, docID, point, cached, now); ok {
			return refreshed, SelectionRefreshed
		}
		return cached, SelectionStale
	}

	details, err := p.details.ResolveByNameNear(ctx, point.Name, point.Coordinate.Lat, point.Coordinate.Lon)
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Str("name", point.Name).Msg("⚠️ 詳細の取得に失敗、タグ表示にフォールバック")
		return nil, SelectionFallback
	}

	record := p.buildRecord(point, details, now)
	if cached != nil {
		// いいね時に作られた最小ドキュメントの liked を引き継ぐ
		record.Liked = cached.Liked
	}
	p.persist(ctx, docID, record)
	return record, SelectionResolved
}

// refresh 古いレコードをマージのみで更新する。失敗時は ok=false で元のレコードは変更しない
func (p *EnrichmentPipeline) refresh(ctx context.Context, docID string, point model.PointOfInterest, stale *model.Restaurant, now time.Time) (*model.Restaurant, bool) {
	var (
		details *model.PlaceDetails
		err     error
	)
	if placeID := stale.PlaceID(); placeID != "" {
		details, err = p.details.ResolveByID(ctx, placeID)
	} else {
		details, err = p.details.ResolveByNameNear(ctx, point.Name, point.Coordinate.Lat, point.Coordinate.Lon)
	}
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Msg("⚠️ レコードの更新に失敗、保存済みのデータを返します")
		return nil, false
	}

	merged := *stale
	if merged.PlaceID() == "" && details.PlaceID != "" {
		placeID := details.PlaceID
		merged.ExternalPlaceID = &placeID
	}
	if photos := p.details.PhotoURLs(details.PhotoHandles, model.MaxPhotos); len(photos) > 0 {
		merged.Photos = photos
	}
	if details.OpenNow != nil {
		merged.OpenNow = details.OpenNow
	}
	if details.WeekdayText != nil {
		merged.OpeningHours = details.WeekdayText
	}
	merged.SavedAt = formatTime(now)

	p.persist(ctx, docID, &merged)
	log.Info().Str("doc_id", docID).Int("photos", len(merged.Photos)).Msg("🔄 レコードを更新しました")
	return &merged, true
}

// buildRecord プロバイダの結果とPOIタグから新しいレコードを作る。写真ハンドルはここで一度だけURLに解決する
func (p *EnrichmentPipeline) buildRecord(point model.PointOfInterest, d *model.PlaceDetails, now time.Time) *model.Restaurant {
	record := &model.Restaurant{
		Name:             d.Name,
		FormattedAddress: d.FormattedAddress,
		Phone:            d.Phone,
		Website:          d.Website,
		Cuisine:          point.Tag("cuisine"),
		OpeningHours:     d.WeekdayText,
		OpenNow:          d.OpenNow,
		Rating:           d.Rating,
		RatingCount:      d.RatingCount,
		PriceLevel:       d.PriceLevel,
		Reviews:          d.Reviews,
		ServiceFlags:     d.ServiceFlags,
		Photos:           p.details.PhotoURLs(d.PhotoHandles, model.MaxPhotos),
		SavedAt:          formatTime(now),
	}
	if record.Name == "" {
		record.Name = point.Name
	}
	if d.PlaceID != "" {
		placeID := d.PlaceID
		record.ExternalPlaceID = &placeID
	}
	switch {
	case d.Location != nil:
		record.Location = *d.Location
	case point.Coordinate != nil:
		record.Location = model.LatLng{Lat: point.Coordinate.Lat, Lng: point.Coordinate.Lon}
	}
	if record.Photos == nil {
		record.Photos = []string{}
	}
	if record.Reviews == nil {
		record.Reviews = []model.ReviewSummary{}
	}
	return record
}

// loadRecord 保存済みレコードを読み込む。読み込みエラーはキャッシュミスとして扱う
func (p *EnrichmentPipeline) loadRecord(ctx context.Context, docID string) *model.Restaurant {
	doc, err := p.store.GetByID(ctx, model.CollectionRestaurant, docID)
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Msg("⚠️ レコードの読み込みに失敗")
		return nil
	}
	if doc == nil {
		return nil
	}
	record, err := model.RestaurantFromDocument(doc)
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Msg("⚠️ 保存済みレコードが不正な形式です")
		return nil
	}
	return record
}

// persist ベストエフォートで保存する。失敗しても呼び出し元には返さない
func (p *EnrichmentPipeline) persist(ctx context.Context, docID string, record *model.Restaurant) {
	doc, err := record.ToDocument()
	if err == nil {
		err = p.store.SaveByID(ctx, model.CollectionRestaurant, docID, doc)
	}
	if err != nil {
		log.Warn().Err(err).Str("doc_id", docID).Msg("⚠️ レコードの保存に失敗")
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
