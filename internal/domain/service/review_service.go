package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/model"
	"Gourmet-App/internal/domain/repository"
)

// ReviewResult レビュー投稿の結果
type ReviewResult struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id,omitempty"`
	Err error  `json:"-"`
}

// ReviewService ユーザーレビューの投稿・削除・一覧
type ReviewService struct {
	store repository.RecordStore
	clock Clock
	newID func() string
}

// NewReviewService は新しいReviewServiceを作成
func NewReviewService(store repository.RecordStore, clock Clock) *ReviewService {
	return &ReviewService{
		store: store,
		clock: clock,
		newID: uuid.NewString,
	}
}

// AddUserReview レビューを投稿する。同じユーザー・レストランのレビューがあれば上書きする
func (s *ReviewService) AddUserReview(ctx context.Context, auth model.AuthContext, state *InteractionState, input model.ReviewInput) ReviewResult {
	if !auth.IsAuthenticated() {
		return ReviewResult{Err: model.ErrNotAuthenticated}
	}
	if err := input.Validate(); err != nil {
		return ReviewResult{Err: err}
	}

	existing, err := s.findReview(ctx, auth.UserID, input.RestaurantID)
	if err != nil {
		log.Error().Err(err).Str("doc_id", input.RestaurantID).Msg("❌ 既存レビューの検索に失敗")
		return ReviewResult{Err: fmt.Errorf("%w: %v", model.ErrPersistence, err)}
	}
	reviewID := s.newID()
	if existing != nil {
		reviewID = existing.ID
	}

	authorName := input.AuthorName
	if authorName == "" {
		authorName = auth.DisplayName
	}
	review := &model.Review{
		AuthorID:       auth.UserID,
		RestaurantID:   input.RestaurantID,
		RestaurantName: input.RestaurantName,
		AuthorName:     authorName,
		Rating:         input.Rating,
		Text:           input.Text,
		Time:           formatTime(s.clock.Now()),
	}

	wasReviewed := state.IsReviewed(input.RestaurantID)
	state.SetReviewed(input.RestaurantID, true)

	doc, err := review.ToDocument()
	if err == nil {
		err = s.store.SaveByID(ctx, model.CollectionReviews, reviewID, doc)
	}
	if err != nil {
		state.SetReviewed(input.RestaurantID, wasReviewed)
		log.Error().Err(err).Str("doc_id", input.RestaurantID).Msg("❌ レビューの保存に失敗")
		return ReviewResult{Err: fmt.Errorf("%w: %v", model.ErrPersistence, err)}
	}

	log.Info().Str("review_id", reviewID).Str("doc_id", input.RestaurantID).Bool("updated", existing != nil).Msg("📝 レビューを保存しました")
	return ReviewResult{OK: true, ID: reviewID}
}

// DeleteReview 投稿者本人のレビューを削除する。集計済みの評価は再計算しない
func (s *ReviewService) DeleteReview(ctx context.Context, auth model.AuthContext, state *InteractionState, reviewID string) error {
	if !auth.IsAuthenticated() {
		return model.ErrNotAuthenticated
	}

	doc, err := s.store.GetByID(ctx, model.CollectionReviews, reviewID)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	if doc == nil {
		return model.NotFoundError{Resource: "review"}
	}
	review, err := model.ReviewFromDocument(reviewID, doc)
	if err != nil {
		return fmt.Errorf("レビューの変換に失敗: %w", err)
	}
	if review.AuthorID != auth.UserID {
		return model.ErrForbidden
	}

	if err := s.store.DeleteByID(ctx, model.CollectionReviews, reviewID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}
	state.SetReviewed(review.RestaurantID, false)

	log.Info().Str("review_id", reviewID).Msg("🗑️ レビューを削除しました")
	return nil
}

// ListUserReviews ユーザーのレビューを新しい順に返す
func (s *ReviewService) ListUserReviews(ctx context.Context, userID string) ([]model.Review, error) {
	docs, err := s.store.QueryByFields(ctx, model.CollectionReviews, model.FieldFilter{Field: model.FieldAuthorID, Value: userID})
	if err != nil {
		return nil, fmt.Errorf("レビュー一覧の取得に失敗: %w", err)
	}

	reviews := make([]model.Review, 0, len(docs))
	for _, d := range docs {
		review, err := model.ReviewFromDocument(d.ID, d.Data)
		if err != nil {
			log.Warn().Err(err).Str("review_id", d.ID).Msg("⚠️ 不正なレビューをスキップ")
			continue
		}
		reviews = append(reviews, *review)
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].Time > reviews[j].Time
	})
	return reviews, nil
}

// ReviewedRestaurantIDs ユーザーがレビュー済みのレストランのdocId
func (s *ReviewService) ReviewedRestaurantIDs(ctx context.Context, userID string) ([]string, error) {
	reviews, err := s.ListUserReviews(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.RestaurantID)
	}
	return ids, nil
}

func (s *ReviewService) findReview(ctx context.Context, userID, restaurantID string) (*model.Review, error) {
	docs, err := s.store.QueryByFields(ctx, model.CollectionReviews,
		model.FieldFilter{Field: model.FieldAuthorID, Value: userID},
		model.FieldFilter{Field: model.FieldRestaurantID, Value: restaurantID},
	)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return model.ReviewFromDocument(docs[0].ID, docs[0].Data)
}
