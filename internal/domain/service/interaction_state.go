package service

import (
	"sync"

	"Gourmet-App/internal/domain/model"
)

// InteractionState セッション内の状態（現在地・絞り込み・いいね/レビュー済みID・表示中リスト）
type InteractionState struct {
	mu           sync.RWMutex
	lastPosition *model.LatLon
	filters      model.Filters
	likedIDs     map[string]struct{}
	reviewedIDs  map[string]struct{}
	currentList  []model.PointOfInterest
}

// NewInteractionState は空の状態を作成
func NewInteractionState() *InteractionState {
	return &InteractionState{
		filters:     model.DefaultFilters(),
		likedIDs:    make(map[string]struct{}),
		reviewedIDs: make(map[string]struct{}),
		currentList: []model.PointOfInterest{},
	}
}

// SetPosition 最後に取得した現在地を記録
func (s *InteractionState) SetPosition(pos model.LatLon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPosition = &pos
}

// Position 最後に取得した現在地（未取得なら false）
func (s *InteractionState) Position() (model.LatLon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastPosition == nil {
		return model.LatLon{}, false
	}
	return *s.lastPosition, true
}

func (s *InteractionState) SetFilters(filters model.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters.Normalize()
}

func (s *InteractionState) Filters() model.Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// ResetInteractions ログイン/初期化時にいいね・レビュー済みIDを再構築する
func (s *InteractionState) ResetInteractions(likedIDs, reviewedIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likedIDs = toSet(likedIDs)
	s.reviewedIDs = toSet(reviewedIDs)
	s.annotateLocked(s.currentList)
}

func (s *InteractionState) IsLiked(docID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.likedIDs[docID]
	return ok
}

func (s *InteractionState) IsReviewed(docID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reviewedIDs[docID]
	return ok
}

// SetLiked いいね状態を更新し、表示中リストにも反映する
func (s *InteractionState) SetLiked(docID string, liked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setMember(s.likedIDs, docID, liked)
	for i := range s.currentList {
		if s.currentList[i].DocID == docID {
			s.currentList[i].IsLiked = liked
		}
	}
}

// SetReviewed レビュー済み状態を更新し、表示中リストにも反映する
func (s *InteractionState) SetReviewed(docID string, reviewed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	setMember(s.reviewedIDs, docID, reviewed)
	for i := range s.currentList {
		if s.currentList[i].DocID == docID {
			s.currentList[i].IsReviewed = reviewed
		}
	}
}

// Annotate docId・いいね・レビュー済みフラグを付与する（スライスをその場で更新）
func (s *InteractionState) Annotate(pois []model.PointOfInterest) []model.PointOfInterest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.annotateLocked(pois)
	return pois
}

// ReplaceList 表示中リストを丸ごと置き換える
func (s *InteractionState) ReplaceList(pois []model.PointOfInterest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]model.PointOfInterest, len(pois))
	copy(list, pois)
	s.annotateLocked(list)
	s.currentList = list
}

// CurrentList 表示中リストのコピー
func (s *InteractionState) CurrentList() []model.PointOfInterest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]model.PointOfInterest, len(s.currentList))
	copy(list, s.currentList)
	return list
}

func (s *InteractionState) annotateLocked(pois []model.PointOfInterest) {
	for i := range pois {
		docID := pois[i].ComputeDocID()
		pois[i].DocID = docID
		_, pois[i].IsLiked = s.likedIDs[docID]
		_, pois[i].IsReviewed = s.reviewedIDs[docID]
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

func setMember(set map[string]struct{}, id string, member bool) {
	if member {
		set[id] = struct{}{}
	} else {
		delete(set, id)
	}
}
