package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
)

// POIFetcher 周辺レストランの取得（EnrichmentPipelineが依存する）
type POIFetcher interface {
	Fetch(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error)
}

// POISource はバックエンドへの問い合わせにタイムアウト・1回リトライ・セッションキャッシュを適用する
type POISource struct {
	backend      repository.POIBackend
	cache        repository.SessionCache
	clock        Clock
	firstTimeout time.Duration
	retryTimeout time.Duration
	backoff      time.Duration
	cacheTTL     time.Duration
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewPOISource は新しいPOISourceを作成
func NewPOISource(backend repository.POIBackend, cache repository.SessionCache, clock Clock) *POISource {
	return &POISource{
		backend:      backend,
		cache:        cache,
		clock:        clock,
		firstTimeout: model.POIFirstAttemptTimeout,
		retryTimeout: model.POIRetryTimeout,
		backoff:      model.POIRetryBackoff,
		cacheTTL:     model.POICacheTTL,
		sleep:        sleepContext,
	}
}

// CacheKey 緯度経度は小数第3位（約111m）、半径は整数メートルに丸める
func CacheKey(lat, lon float64, radiusMeters int) string {
	return fmt.Sprintf("pois:%.3f:%.3f:%d", roundTo(lat, 3), roundTo(lon, 3), radiusMeters)
}

// Fetch 周辺のレストランを取得する。
// 2回とも失敗した場合はキャッシュ、なければ空スライスを返す。キャンセルのみエラーとして伝播する
func (s *POISource) Fetch(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error) {
	key := CacheKey(lat, lon, radiusMeters)

	elements, err := s.attempt(ctx, lat, lon, radiusMeters, s.firstTimeout)
	if err == nil {
		s.store(ctx, key, elements)
		return elements, nil
	}
	if cancelErr := cancellation(ctx, err); cancelErr != nil {
		return nil, cancelErr
	}
	log.Warn().Err(err).Str("key", key).Int("attempt", 1).Msg("⚠️ POI取得に失敗、リトライします")

	if err := s.sleep(ctx, s.backoff); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrCancelled, err)
	}

	elements, err = s.attempt(ctx, lat, lon, radiusMeters, s.retryTimeout)
	if err == nil {
		s.store(ctx, key, elements)
		return elements, nil
	}
	if cancelErr := cancellation(ctx, err); cancelErr != nil {
		return nil, cancelErr
	}
	log.Warn().Err(err).Str("key", key).Int("attempt", 2).Msg("⚠️ POI取得のリトライにも失敗、キャッシュを確認します")

	if entry, ok := s.cache.Get(ctx, key); ok {
		storedAt := time.UnixMilli(entry.StoredAt)
		if s.clock.Now().Sub(storedAt) < s.cacheTTL {
			log.Info().Str("key", key).Int("count", len(entry.Elements)).Msg("📦 キャッシュからPOIを返します")
			return entry.Elements, nil
		}
		log.Info().Str("key", key).Msg("⌛ キャッシュの有効期限切れ")
	}

	return []model.RawPOI{}, nil
}

// attempt 1回分の問い合わせ。呼び出し元のctxとは別のタイムアウトを持つ
func (s *POISource) attempt(ctx context.Context, lat, lon float64, radiusMeters int, timeout time.Duration) ([]model.RawPOI, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	elements, err := s.backend.QueryRestaurants(attemptCtx, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}
	if elements == nil {
		elements = []model.RawPOI{}
	}
	return elements, nil
}

// store 空でない結果で無条件にキャッシュを上書きする
func (s *POISource) store(ctx context.Context, key string, elements []model.RawPOI) {
	if len(elements) == 0 {
		return
	}
	s.cache.Set(ctx, key, &model.CachedPOIs{
		Elements: elements,
		StoredAt: s.clock.Now().UnixMilli(),
	}, s.cacheTTL)
}

// cancellation 呼び出し元のキャンセルならキャンセルエラーを返す（タイムアウトは対象外）
func cancellation(ctx context.Context, err error) error {
	if errors.Is(err, model.ErrCancelled) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", model.ErrCancelled, ctx.Err())
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0 // -0 を避ける
	}
	return r
}
