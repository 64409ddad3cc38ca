package service

// MutationState 楽観的更新の状態
type MutationState string

const (
	MutationPending    MutationState = "pending"
	MutationCommitted  MutationState = "committed"
	MutationRolledBack MutationState = "rolled_back"
)

// LikeMutation いいね切り替え1回分の楽観的更新
type LikeMutation struct {
	DocID    string
	Previous bool // ローカル状態の元の値
	Next     bool
	State    MutationState
}

func newLikeMutation(docID string, previous, next bool) *LikeMutation {
	return &LikeMutation{DocID: docID, Previous: previous, Next: next, State: MutationPending}
}

// apply ローカル状態に楽観的に反映する
func (m *LikeMutation) apply(state *InteractionState) {
	state.SetLiked(m.DocID, m.Next)
}

func (m *LikeMutation) commit() {
	if m.State == MutationPending {
		m.State = MutationCommitted
	}
}

// rollback ローカル状態を元に戻す
func (m *LikeMutation) rollback(state *InteractionState) {
	if m.State != MutationPending {
		return
	}
	state.SetLiked(m.DocID, m.Previous)
	m.State = MutationRolledBack
}
