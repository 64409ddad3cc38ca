package usecase

import (
	"context"

	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/service"
)

type RestaurantUseCase interface {
	// InitSession いいね・レビュー済みを読み込み、指定位置で初回の一覧を返す
	InitSession(ctx context.Context, sessionKey string, auth model.AuthContext, req *model.InitSessionRequest) (*model.RestaurantListResponse, error)

	// ListRestaurants 絞り込み条件を適用した一覧を返す。position が nil なら最後の位置を使う
	ListRestaurants(ctx context.Context, sessionKey string, filters model.Filters, position *model.LatLon) (*model.RestaurantListResponse, error)

	// SelectRestaurant 詳細表示用のレコードを解決する
	SelectRestaurant(ctx context.Context, sessionKey string, point model.PointOfInterest) *model.SelectionResponse

	ToggleLike(ctx context.Context, sessionKey string, auth model.AuthContext, docID string, minimal *model.MinimalRestaurant) service.LikeResult
	AddReview(ctx context.Context, sessionKey string, auth model.AuthContext, input model.ReviewInput) service.ReviewResult
	DeleteReview(ctx context.Context, sessionKey string, auth model.AuthContext, reviewID string) error
	ListMyReviews(ctx context.Context, sessionKey string, auth model.AuthContext) ([]model.Review, error)
}

// restaurantUseCaseImpl はRestaurantUseCaseの実装
type restaurantUseCaseImpl struct {
	sessions *SessionRegistry
}

// NewRestaurantUseCase は新しいRestaurantUseCaseインスタンスを作成
func NewRestaurantUseCase(sessions *SessionRegistry) RestaurantUseCase {
	return &restaurantUseCaseImpl{
		sessions: sessions,
	}
}

func (u *restaurantUseCaseImpl) InitSession(ctx context.Context, sessionKey string, auth model.AuthContext, req *model.InitSessionRequest) (*model.RestaurantListResponse, error) {
	session := u.sessions.Get(sessionKey)
	log.Info().Str("session", sessionKey).Bool("authenticated", auth.IsAuthenticated()).Msg("🚀 セッション初期化")

	pois, err := session.Init(ctx, auth, req.Filters, req.Position())
	if err != nil {
		return nil, err
	}
	return listResponse(pois, session.State.Filters()), nil
}

func (u *restaurantUseCaseImpl) ListRestaurants(ctx context.Context, sessionKey string, filters model.Filters, position *model.LatLon) (*model.RestaurantListResponse, error) {
	session := u.sessions.Get(sessionKey)
	if position != nil {
		session.State.SetPosition(*position)
	}

	pois, err := session.ApplyFilters(ctx, filters)
	if err != nil {
		return nil, err
	}
	return listResponse(pois, session.State.Filters()), nil
}

func (u *restaurantUseCaseImpl) SelectRestaurant(ctx context.Context, sessionKey string, point model.PointOfInterest) *model.SelectionResponse {
	session := u.sessions.Get(sessionKey)

	response := &model.SelectionResponse{}
	state := session.HandleSelection(ctx, point, func(record *model.Restaurant, fallbackName string, p model.PointOfInterest) {
		response.Record = record
		response.FallbackName = fallbackName
		response.Point = p
	})
	response.State = string(state)
	return response
}

func (u *restaurantUseCaseImpl) ToggleLike(ctx context.Context, sessionKey string, auth model.AuthContext, docID string, minimal *model.MinimalRestaurant) service.LikeResult {
	return u.sessions.Get(sessionKey).ToggleLike(ctx, auth, docID, minimal)
}

func (u *restaurantUseCaseImpl) AddReview(ctx context.Context, sessionKey string, auth model.AuthContext, input model.ReviewInput) service.ReviewResult {
	return u.sessions.Get(sessionKey).AddUserReview(ctx, auth, input)
}

func (u *restaurantUseCaseImpl) DeleteReview(ctx context.Context, sessionKey string, auth model.AuthContext, reviewID string) error {
	return u.sessions.Get(sessionKey).DeleteReview(ctx, auth, reviewID)
}

func (u *restaurantUseCaseImpl) ListMyReviews(ctx context.Context, sessionKey string, auth model.AuthContext) ([]model.Review, error) {
	return u.sessions.Get(sessionKey).ListUserReviews(ctx, auth)
}

func listResponse(pois []model.PointOfInterest, filters model.Filters) *model.RestaurantListResponse {
	if pois == nil {
		pois = []model.PointOfInterest{}
	}
	return &model.RestaurantListResponse{
		Restaurants: pois,
		Count:       len(pois),
		Filters:     filters,
	}
}
