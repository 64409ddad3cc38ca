package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"Gourmet-App/internal/domain/model"
)

// LikeResult いいね切り替えの結果
type LikeResult struct {
	OK       bool          `json:"ok"`
	Liked    bool          `json:"liked"`
	Err      error         `json:"-"`
	Mutation *LikeMutation `json:"-"`
}

// ToggleLike いいねを切り替える。
// 現在の状態はサーバー側のliked配列から判定し、ローカル状態を先に更新してから2つの配列を並列に更新する
func (p *EnrichmentPipeline) ToggleLike(ctx context.Context, auth model.AuthContext, state *InteractionState, docID string, minimal *model.MinimalRestaurant) LikeResult {
	if !auth.IsAuthenticated() {
		return LikeResult{Err: model.ErrNotAuthenticated}
	}
	uid := auth.UserID

	doc, err := p.store.GetByID(ctx, model.CollectionRestaurant, docID)
	if err != nil {
		log.Error().Err(err).Str("doc_id", docID).Msg("❌ いいね状態の取得に失敗")
		return LikeResult{Err: fmt.Errorf("%w: %v", model.ErrPersistence, err)}
	}
	if doc == nil && minimal != nil {
		if err := p.store.SaveByID(ctx, model.CollectionRestaurant, docID, minimal.ToDocument()); err != nil {
			log.Warn().Err(err).Str("doc_id", docID).Msg("⚠️ 最小ドキュメントの作成に失敗")
		}
	}

	liked := containsString(stringSlice(doc[model.FieldLiked]), uid)
	mutation := newLikeMutation(docID, state.IsLiked(docID), !liked)
	mutation.apply(state)

	var g errgroup.Group
	g.Go(func() error {
		if mutation.Next {
			return p.store.ArrayUnionField(ctx, model.CollectionRestaurant, docID, model.FieldLiked, uid)
		}
		return p.store.ArrayRemoveField(ctx, model.CollectionRestaurant, docID, model.FieldLiked, uid)
	})
	g.Go(func() error {
		if mutation.Next {
			return p.store.ArrayUnionField(ctx, model.CollectionUser, uid, model.FieldLikedRestaurants, docID)
		}
		return p.store.ArrayRemoveField(ctx, model.CollectionUser, uid, model.FieldLikedRestaurants, docID)
	})
	if err := g.Wait(); err != nil {
		mutation.rollback(state)
		log.Error().Err(err).Str("doc_id", docID).Str("uid", uid).Msg("❌ いいねの更新に失敗、ローカル状態を元に戻しました")
		return LikeResult{Err: fmt.Errorf("%w: %v", model.ErrPersistence, err), Mutation: mutation}
	}

	mutation.commit()
	log.Info().Str("doc_id", docID).Bool("liked", mutation.Next).Msg("❤️ いいねを更新しました")
	return LikeResult{OK: true, Liked: mutation.Next, Mutation: mutation}
}

// stringSlice ドキュメントの配列フィールドを文字列スライスとして取り出す
func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
