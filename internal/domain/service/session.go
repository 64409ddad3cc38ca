package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/helper"
	"Gourmet-App/internal/domain/model"
)

// SelectionCallback 詳細表示への受け渡し。record が nil の場合はタグのみで表示する
type SelectionCallback func(record *model.Restaurant, fallbackName string, point model.PointOfInterest)

// Session 1ユーザー（または匿名セッション）分の操作窓口
type Session struct {
	ID       string
	State    *InteractionState
	pipeline *EnrichmentPipeline
	reviews  *ReviewService

	mu         sync.Mutex
	loadSeq    uint64
	cancelLoad context.CancelFunc
}

// NewSession は新しいSessionを作成
func NewSession(id string, pipeline *EnrichmentPipeline, reviews *ReviewService) *Session {
	return &Session{
		ID:       id,
		State:    NewInteractionState(),
		pipeline: pipeline,
		reviews:  reviews,
	}
}

// Init いいね・レビュー済みIDを再構築し、現在地で初回の読み込みを行う
func (s *Session) Init(ctx context.Context, auth model.AuthContext, filters model.Filters, position *model.LatLon) ([]model.PointOfInterest, error) {
	s.RefreshInteractions(ctx, auth)
	s.State.SetFilters(filters)
	if position == nil {
		return nil, model.ErrNoPosition
	}
	s.State.SetPosition(*position)
	return s.ApplyFilters(ctx, filters)
}

// RefreshInteractions ログインユーザーのいいね・レビュー済みIDを読み直す。読み込み失敗は空として扱う
func (s *Session) RefreshInteractions(ctx context.Context, auth model.AuthContext) {
	if !auth.IsAuthenticated() {
		s.State.ResetInteractions(nil, nil)
		return
	}

	var liked []string
	userDoc, err := s.pipeline.store.GetByID(ctx, model.CollectionUser, auth.UserID)
	if err != nil {
		log.Warn().Err(err).Str("uid", auth.UserID).Msg("⚠️ ユーザーのいいね一覧の取得に失敗")
	} else {
		liked = stringSlice(userDoc[model.FieldLikedRestaurants])
	}

	reviewed, err := s.reviews.ReviewedRestaurantIDs(ctx, auth.UserID)
	if err != nil {
		log.Warn().Err(err).Str("uid", auth.UserID).Msg("⚠️ ユーザーのレビュー一覧の取得に失敗")
	}

	s.State.ResetInteractions(liked, reviewed)
}

// ApplyFilters 新しい半径で再取得し、いいね・レビュー済みで絞り込む
func (s *Session) ApplyFilters(ctx context.Context, filters model.Filters) ([]model.PointOfInterest, error) {
	filters = filters.Normalize()
	s.State.SetFilters(filters)

	pos, ok := s.State.Position()
	if !ok {
		return nil, model.ErrNoPosition
	}
	return s.load(ctx, pos.Lat, pos.Lon, filters.RadiusMeters(), filters)
}

// HandleSelection POIの詳細を解決してコールバックに渡す
func (s *Session) HandleSelection(ctx context.Context, point model.PointOfInterest, callback SelectionCallback) SelectionState {
	record, outcome := s.pipeline.SelectPoint(ctx, point)
	fallbackName := point.Name
	if !point.HasName() {
		fallbackName = model.UnnamedRestaurant
	}
	point.DocID = point.ComputeDocID()
	point.IsLiked = s.State.IsLiked(point.DocID)
	point.IsReviewed = s.State.IsReviewed(point.DocID)
	if callback != nil {
		callback(record, fallbackName, point)
	}
	return outcome
}

// ToggleLike いいねを切り替える
func (s *Session) ToggleLike(ctx context.Context, auth model.AuthContext, docID string, minimal *model.MinimalRestaurant) LikeResult {
	return s.pipeline.ToggleLike(ctx, auth, s.State, docID, minimal)
}

// AddUserReview レビューを投稿する
func (s *Session) AddUserReview(ctx context.Context, auth model.AuthContext, input model.ReviewInput) ReviewResult {
	return s.reviews.AddUserReview(ctx, auth, s.State, input)
}

// DeleteReview レビューを削除する
func (s *Session) DeleteReview(ctx context.Context, auth model.AuthContext, reviewID string) error {
	return s.reviews.DeleteReview(ctx, auth, s.State, reviewID)
}

// ListUserReviews ログインユーザーのレビュー一覧
func (s *Session) ListUserReviews(ctx context.Context, auth model.AuthContext) ([]model.Review, error) {
	if !auth.IsAuthenticated() {
		return nil, model.ErrNotAuthenticated
	}
	return s.reviews.ListUserReviews(ctx, auth.UserID)
}

// load 前回の読み込みをキャンセルし、最新の読み込みだけが表示中リストを置き換える
func (s *Session) load(ctx context.Context, lat, lon float64, radiusMeters int, filters model.Filters) ([]model.PointOfInterest, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
	}
	s.loadSeq++
	seq := s.loadSeq
	s.cancelLoad = cancel
	s.mu.Unlock()

	pois, err := s.pipeline.LoadNearby(loadCtx, s.State, lat, lon, radiusMeters)
	if err != nil {
		return nil, err
	}
	pois = helper.FilterPOIs(pois, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		return nil, fmt.Errorf("%w: superseded by a newer load", model.ErrCancelled)
	}
	s.cancelLoad = nil
	s.State.ReplaceList(pois)
	return pois, nil
}
