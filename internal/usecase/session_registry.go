package usecase

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"Gourmet-App/internal/domain/service"
)

// SessionRegistry ユーザー（または匿名セッション）ごとのSessionを保持する。
// 一定時間アクセスがなければ破棄される
type SessionRegistry struct {
	mu       sync.Mutex
	sessions *gocache.Cache
	ttl      time.Duration
	factory  func(id string) *service.Session
}

func NewSessionRegistry(ttl time.Duration, factory func(id string) *service.Session) *SessionRegistry {
	return &SessionRegistry{
		sessions: gocache.New(ttl, ttl/2),
		ttl:      ttl,
		factory:  factory,
	}
}

// Get 既存のセッションを返す。なければ作成する
func (r *SessionRegistry) Get(key string) *service.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if x, found := r.sessions.Get(key); found {
		session := x.(*service.Session)
		r.sessions.Set(key, session, r.ttl)
		return session
	}

	session := r.factory(key)
	r.sessions.Set(key, session, r.ttl)
	log.Debug().Str("session", key).Msg("🆕 セッションを作成しました")
	return session
}

func (r *SessionRegistry) Count() int {
	return r.sessions.ItemCount()
}
