package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gourmet-App/internal/domain/model"
)

func newTestSource(backend *fakeBackend, cache *fakeCache, clock *manualClock) *POISource {
	s := NewPOISource(backend, cache, clock)
	s.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return s
}

func rawNode(id int64, lat, lon float64, name string) model.RawPOI {
	return model.RawPOI{
		ID:   id,
		Type: model.ElementNode,
		Lat:  floatPtr(lat),
		Lon:  floatPtr(lon),
		Tags: map[string]string{"name": name},
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "pois:42.350:13.400:1000", CacheKey(42.35012, 13.40049, 1000))
	assert.Equal(t, CacheKey(42.3501, 13.4001, 500), CacheKey(42.3504, 13.3996, 500))
	assert.NotEqual(t, CacheKey(42.350, 13.400, 500), CacheKey(42.350, 13.400, 501))
}

func TestPOISource_Fetch(t *testing.T) {
	ctx := context.Background()
	trattoria := rawNode(1, 42.351, 13.401, "Trattoria A")

	t.Run("1回目が失敗し2回目が成功すると2回目の結果を返す", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			fail("502 bad gateway"),
			succeed(trattoria),
		}}
		source := newTestSource(backend, newFakeCache(), newManualClock())

		elements, err := source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		assert.Equal(t, []model.RawPOI{trattoria}, elements)
		assert.Equal(t, 2, backend.Calls())
	})

	t.Run("タイムアウトはキャンセルではないのでリトライする", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			func(ctx context.Context) ([]model.RawPOI, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			succeed(trattoria),
		}}
		source := newTestSource(backend, newFakeCache(), newManualClock())
		source.firstTimeout = 10 * time.Millisecond

		elements, err := source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		assert.Len(t, elements, 1)
		assert.Equal(t, 2, backend.Calls())
	})

	t.Run("キャンセルはリトライせずキャンセルエラーを返す", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			func(ctx context.Context) ([]model.RawPOI, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
			succeed(trattoria),
		}}
		source := newTestSource(backend, newFakeCache(), newManualClock())

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		elements, err := source.Fetch(cancelled, 42.35, 13.40, 1000)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrCancelled))
		assert.Nil(t, elements)
		assert.Equal(t, 1, backend.Calls())
	})

	t.Run("キャッシュは10分間有効", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			succeed(trattoria),
			fail("down"), fail("down"),
			fail("down"), fail("down"),
		}}
		clock := newManualClock()
		source := newTestSource(backend, newFakeCache(), clock)

		_, err := source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)

		clock.Advance(9 * time.Minute)
		elements, err := source.Fetch(ctx, 42.3501, 13.4002, 1000)
		require.NoError(t, err)
		assert.Equal(t, []model.RawPOI{trattoria}, elements)

		clock.Advance(2 * time.Minute)
		elements, err = source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		assert.Empty(t, elements)
		assert.NotNil(t, elements)
		assert.Equal(t, 5, backend.Calls())
	})

	t.Run("空の結果ではキャッシュを上書きしない", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			succeed(trattoria),
			succeed(),
			fail("down"), fail("down"),
		}}
		source := newTestSource(backend, newFakeCache(), newManualClock())

		_, err := source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		elements, err := source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		assert.Empty(t, elements)

		elements, err = source.Fetch(ctx, 42.35, 13.40, 1000)
		require.NoError(t, err)
		assert.Equal(t, []model.RawPOI{trattoria}, elements)
	})

	t.Run("キャッシュもなければ空を返しエラーにしない", func(t *testing.T) {
		backend := &fakeBackend{responses: []func(context.Context) ([]model.RawPOI, error){
			fail("down"), fail("down"),
		}}
		source := newTestSource(backend, newFakeCache(), newManualClock())

		elements, err := source.Fetch(ctx, 1, 2, 500)
		require.NoError(t, err)
		assert.Empty(t, elements)
	})
}
