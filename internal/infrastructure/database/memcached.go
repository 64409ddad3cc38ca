package database

import (
	"github.com/bradfitz/gomemcache/memcache"
)

// NewMemcached セッションキャッシュ用のmemcachedクライアント
func NewMemcached(server string) *memcache.Client {
	return memcache.New(server)
}
