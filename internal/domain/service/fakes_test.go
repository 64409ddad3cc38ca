package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"Gourmet-App/internal/domain/model"
)

// manualClock テスト用の手動で進める時計
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeBackend 呼び出しごとの応答を順番に返すPOIバックエンド
type fakeBackend struct {
	mu        sync.Mutex
	calls     int
	responses []func(ctx context.Context) ([]model.RawPOI, error)
}

func (b *fakeBackend) QueryRestaurants(ctx context.Context, lat, lon float64, radiusMeters int) ([]model.RawPOI, error) {
	b.mu.Lock()
	idx := b.calls
	b.calls++
	b.mu.Unlock()
	if idx >= len(b.responses) {
		return nil, errors.New("unexpected call")
	}
	return b.responses[idx](ctx)
}

func (b *fakeBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

func succeed(elements ...model.RawPOI) func(context.Context) ([]model.RawPOI, error) {
	return func(context.Context) ([]model.RawPOI, error) { return elements, nil }
}

func fail(msg string) func(context.Context) ([]model.RawPOI, error) {
	return func(context.Context) ([]model.RawPOI, error) { return nil, errors.New(msg) }
}

// fakeCache TTLを見ないメモリキャッシュ（有効期限の判定はPOISource側が行う）
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*model.CachedPOIs
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.CachedPOIs)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (*model.CachedPOIs, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e, ok
}

func (c *fakeCache) Set(ctx context.Context, key string, entry *model.CachedPOIs, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
}

// fakeDetails 呼び出し回数を記録する詳細プロバイダ
type fakeDetails struct {
	mu        sync.Mutex
	byName    map[string]*model.PlaceDetails
	byID      map[string]*model.PlaceDetails
	err       error
	nameCalls int
	idCalls   int
}

func newFakeDetails() *fakeDetails {
	return &fakeDetails{
		byName: make(map[string]*model.PlaceDetails),
		byID:   make(map[string]*model.PlaceDetails),
	}
}

func (d *fakeDetails) ResolveByNameNear(ctx context.Context, name string, lat, lon float64) (*model.PlaceDetails, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nameCalls++
	if d.err != nil {
		return nil, d.err
	}
	if r, ok := d.byName[name]; ok {
		return r, nil
	}
	return nil, model.ErrNoMatch
}

func (d *fakeDetails) ResolveByID(ctx context.Context, placeID string) (*model.PlaceDetails, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.idCalls++
	if d.err != nil {
		return nil, d.err
	}
	if r, ok := d.byID[placeID]; ok {
		return r, nil
	}
	return nil, &model.ProviderError{Status: "NOT_FOUND"}
}

func (d *fakeDetails) PhotoURLs(handles []string, max int) []string {
	urls := make([]string, 0, len(handles))
	for _, h := range handles {
		if len(urls) == max {
			break
		}
		urls = append(urls, "https://photos.example/"+h)
	}
	return urls
}

func (d *fakeDetails) TotalCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nameCalls + d.idCalls
}

// fakeStore 操作ごとに失敗を注入できるRecordStore
type fakeStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]model.Document
	failWith map[string]error // "op:collection" -> error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs:     make(map[string]map[string]model.Document),
		failWith: make(map[string]error),
	}
}

func (s *fakeStore) fail(op, collection string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith[op+":"+collection] = err
}

func (s *fakeStore) injected(op, collection string) error {
	return s.failWith[op+":"+collection]
}

func (s *fakeStore) put(collection, id string, doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]model.Document)
	}
	s.docs[collection][id] = doc
}

func (s *fakeStore) GetByID(ctx context.Context, collection, id string) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("get", collection); err != nil {
		return nil, err
	}
	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, nil
	}
	clone := make(model.Document, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone, nil
}

func (s *fakeStore) SaveByID(ctx context.Context, collection, id string, data model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if err := s.injected("save", collection); err != nil {
		return err
	}
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]model.Document)
	}
	doc, ok := s.docs[collection][id]
	if !ok {
		doc = model.Document{}
		s.docs[collection][id] = doc
	}
	for k, v := range data {
		doc[k] = v
	}
	return nil
}

func (s *fakeStore) ArrayUnionField(ctx context.Context, collection, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("union", collection); err != nil {
		return err
	}
	doc := s.ensure(collection, id)
	list := stringSlice(doc[field])
	if !containsString(list, fmt.Sprint(value)) {
		list = append(list, fmt.Sprint(value))
	}
	doc[field] = list
	return nil
}

func (s *fakeStore) ArrayRemoveField(ctx context.Context, collection, id, field string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("remove", collection); err != nil {
		return err
	}
	doc := s.ensure(collection, id)
	var kept []string
	for _, v := range stringSlice(doc[field]) {
		if v != fmt.Sprint(value) {
			kept = append(kept, v)
		}
	}
	doc[field] = kept
	return nil
}

func (s *fakeStore) DeleteByID(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("delete", collection); err != nil {
		return err
	}
	delete(s.docs[collection], id)
	return nil
}

func (s *fakeStore) QueryByFields(ctx context.Context, collection string, filters ...model.FieldFilter) ([]model.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("query", collection); err != nil {
		return nil, err
	}
	var out []model.StoredDocument
	for id, doc := range s.docs[collection] {
		match := true
		for _, f := range filters {
			if fmt.Sprint(doc[f.Field]) != fmt.Sprint(f.Value) {
				match = false
				break
			}
		}
		if match {
			out = append(out, model.StoredDocument{ID: id, Data: doc})
		}
	}
	return out, nil
}

func (s *fakeStore) ensure(collection, id string) model.Document {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]model.Document)
	}
	doc, ok := s.docs[collection][id]
	if !ok {
		doc = model.Document{}
		s.docs[collection][id] = doc
	}
	return doc
}

func (s *fakeStore) likedOf(docID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stringSlice(s.docs[model.CollectionRestaurant][docID][model.FieldLiked])
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool { return &v }
