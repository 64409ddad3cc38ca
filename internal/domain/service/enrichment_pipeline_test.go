package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gourmet-App/internal/domain/model"
)

type pipelineFixture struct {
	backend *fakeBackend
	details *fakeDetails
	store   *fakeStore
	clock   *manualClock
	state   *InteractionState
	p       *EnrichmentPipeline
}

func newPipelineFixture(responses ...func(context.Context) ([]model.RawPOI, error)) *pipelineFixture {
	f := &pipelineFixture{
		backend: &fakeBackend{responses: responses},
		details: newFakeDetails(),
		store:   newFakeStore(),
		clock:   newManualClock(),
		state:   NewInteractionState(),
	}
	source := newTestSource(f.backend, newFakeCache(), f.clock)
	f.p = NewEnrichmentPipeline(source, f.details, f.store, f.clock)
	return f
}

func storedRestaurant(t *testing.T, r *model.Restaurant) model.Document {
	t.Helper()
	doc, err := r.ToDocument()
	require.NoError(t, err)
	if len(r.Liked) > 0 {
		doc[model.FieldLiked] = r.Liked
	}
	return doc
}

func TestEnrichmentPipeline_LoadNearby(t *testing.T) {
	ctx := context.Background()

	t.Run("近い順に並びdocIdが付与される", func(t *testing.T) {
		f := newPipelineFixture(succeed(
			rawNode(2, 42.40, 13.45, "Bar B"),
			rawNode(1, 42.351, 13.401, "Trattoria A"),
		))

		pois, err := f.p.LoadNearby(ctx, f.state, 42.35, 13.40, 10000)
		require.NoError(t, err)
		require.Len(t, pois, 2)
		assert.Equal(t, "Trattoria A", pois[0].Name)
		assert.Equal(t, "osm_node_1", pois[0].DocID)
		assert.Equal(t, "osm_node_2", pois[1].DocID)
		assert.False(t, pois[0].IsLiked)
		assert.False(t, pois[1].IsLiked)
		assert.Less(t, float64(pois[0].DistanceKm), float64(pois[1].DistanceKm))
		assert.Empty(t, f.state.CurrentList())
	})

	t.Run("座標のない要素は最後に並ぶ", func(t *testing.T) {
		f := newPipelineFixture(succeed(
			model.RawPOI{ID: 9, Type: model.ElementRelation, Tags: map[string]string{"name": "Nowhere"}},
			rawNode(3, 42.36, 13.41, "C"),
			model.RawPOI{ID: 4, Type: model.ElementWay, Center: &model.LatLon{Lat: 42.3505, Lon: 13.4005}},
		))

		pois, err := f.p.LoadNearby(ctx, f.state, 42.35, 13.40, 10000)
		require.NoError(t, err)
		require.Len(t, pois, 3)
		assert.Equal(t, "osm_way_4", pois[0].DocID)
		assert.Equal(t, "osm_node_3", pois[1].DocID)
		assert.Equal(t, "osm_relation_9", pois[2].DocID)
		assert.True(t, pois[2].DistanceKm.IsUnknown())
	})

	t.Run("いいね・レビュー済みフラグを付与する", func(t *testing.T) {
		f := newPipelineFixture(succeed(rawNode(1, 42.351, 13.401, "A"), rawNode(2, 42.352, 13.402, "B")))
		f.state.ResetInteractions([]string{"osm_node_2"}, []string{"osm_node_1"})

		pois, err := f.p.LoadNearby(ctx, f.state, 42.35, 13.40, 10000)
		require.NoError(t, err)
		assert.True(t, pois[0].IsReviewed)
		assert.False(t, pois[0].IsLiked)
		assert.True(t, pois[1].IsLiked)
	})

	t.Run("結果が空なら空のスライスを返す", func(t *testing.T) {
		f := newPipelineFixture(succeed())

		pois, err := f.p.LoadNearby(ctx, f.state, 42.35, 13.40, 10000)
		require.NoError(t, err)
		require.NotNil(t, pois)
		assert.Empty(t, pois)
	})
}

func TestEnrichmentPipeline_SelectPoint(t *testing.T) {
	ctx := context.Background()
	point := model.PointOfInterest{
		Type:       model.ElementNode,
		ExternalID: 1,
		Name:       "Trattoria A",
		Coordinate: &model.LatLon{Lat: 42.351, Lon: 13.401},
		Tags:       map[string]string{"name": "Trattoria A", "cuisine": "italian"},
	}

	t.Run("名前のないPOIはプロバイダを呼ばずにnilを返す", func(t *testing.T) {
		f := newPipelineFixture()
		unnamed := point
		unnamed.Name = ""
		unnamed.Tags = map[string]string{"cuisine": "pizza"}

		record, state := f.p.SelectPoint(ctx, unnamed)
		assert.Nil(t, record)
		assert.Equal(t, SelectionFallback, state)
		assert.Equal(t, 0, f.details.TotalCalls())
	})

	t.Run("名前のないPOIは保存済みの古いレコードがあってもプロバイダを呼ばない", func(t *testing.T) {
		f := newPipelineFixture()
		placeID := "place-9"
		stale := &model.Restaurant{
			Name:            "Osteria Nove",
			ExternalPlaceID: &placeID,
			Photos:          []string{"p1"},
			SavedAt:         formatTime(f.clock.Now().Add(-72 * time.Hour)),
		}
		f.store.put(model.CollectionRestaurant, "osm_node_9", storedRestaurant(t, stale))
		f.details.byID[placeID] = &model.PlaceDetails{PlaceID: placeID, Name: "Osteria Nove"}
		f.details.byName["Osteria Nove"] = f.details.byID[placeID]

		unnamed := point
		unnamed.ExternalID = 9
		unnamed.Name = ""
		unnamed.Tags = nil

		record, state := f.p.SelectPoint(ctx, unnamed)
		assert.Nil(t, record)
		assert.Equal(t, SelectionFallback, state)
		assert.Equal(t, 0, f.details.TotalCalls())
		assert.Equal(t, 0, f.store.saves)
	})

	t.Run("いいねで作られた最小ドキュメントはキャッシュミスとして詳細を解決する", func(t *testing.T) {
		f := newPipelineFixture()
		user := model.AuthContext{UserID: "u1"}
		liked := f.p.ToggleLike(ctx, user, f.state, "osm_node_1", &model.MinimalRestaurant{Name: "Trattoria A"})
		require.True(t, liked.OK)

		f.details.byName["Trattoria A"] = &model.PlaceDetails{
			PlaceID:          "place-1",
			Name:             "Trattoria A",
			FormattedAddress: "Via Roma 1",
			Phone:            "123",
			Rating:           floatPtr(4.5),
			PhotoHandles:     []string{"h1"},
		}

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionResolved, state)
		assert.Equal(t, "Via Roma 1", record.FormattedAddress)
		assert.Equal(t, "123", record.Phone)
		require.NotNil(t, record.Rating)
		assert.Equal(t, 4.5, *record.Rating)
		assert.Equal(t, "place-1", record.PlaceID())
		assert.Equal(t, []string{"u1"}, record.Liked)

		saved, err := f.store.GetByID(ctx, model.CollectionRestaurant, "osm_node_1")
		require.NoError(t, err)
		assert.Equal(t, "Via Roma 1", saved["formatted_address"])
		assert.Equal(t, []string{"u1"}, stringSlice(saved[model.FieldLiked]))

		again, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, again)
		assert.Equal(t, SelectionCacheHitFresh, state)
		assert.Equal(t, "Via Roma 1", again.FormattedAddress)
		assert.Equal(t, 1, f.details.nameCalls)
	})

	t.Run("新しいキャッシュはそのまま返す", func(t *testing.T) {
		f := newPipelineFixture()
		cached := &model.Restaurant{
			Name:    "Trattoria A",
			Photos:  []string{"https://photos.example/a"},
			SavedAt: formatTime(f.clock.Now().Add(-time.Hour)),
		}
		f.store.put(model.CollectionRestaurant, "osm_node_1", storedRestaurant(t, cached))

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionCacheHitFresh, state)
		assert.Equal(t, cached.Photos, record.Photos)
		assert.Equal(t, 0, f.details.TotalCalls())
	})

	t.Run("古いレコードの更新で写真が0件なら既存の写真を残す", func(t *testing.T) {
		f := newPipelineFixture()
		placeID := "place-1"
		stale := &model.Restaurant{
			Name:            "Trattoria A",
			ExternalPlaceID: &placeID,
			Photos:          []string{"p1", "p2", "p3"},
			OpenNow:         boolPtr(true),
			OpeningHours:    []string{"Mon: 9-17"},
			SavedAt:         formatTime(f.clock.Now().Add(-72 * time.Hour)),
		}
		f.store.put(model.CollectionRestaurant, "osm_node_1", storedRestaurant(t, stale))
		f.details.byID[placeID] = &model.PlaceDetails{PlaceID: placeID, Name: "Trattoria A"}

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionRefreshed, state)
		assert.Equal(t, []string{"p1", "p2", "p3"}, record.Photos)
		assert.Equal(t, []string{"Mon: 9-17"}, record.OpeningHours)
		require.NotNil(t, record.OpenNow)
		assert.True(t, *record.OpenNow)
		assert.Equal(t, formatTime(f.clock.Now()), record.SavedAt)
		assert.Equal(t, 1, f.details.idCalls)
		assert.Equal(t, 0, f.details.nameCalls)
	})

	t.Run("更新で取得できた値だけを上書きしプレイスIDを保存する", func(t *testing.T) {
		f := newPipelineFixture()
		stale := &model.Restaurant{
			Name:    "Trattoria A",
			Cuisine: "italian",
			Photos:  []string{},
			SavedAt: formatTime(f.clock.Now().Add(-time.Hour)),
		}
		f.store.put(model.CollectionRestaurant, "osm_node_1", storedRestaurant(t, stale))
		f.details.byName["Trattoria A"] = &model.PlaceDetails{
			PlaceID:      "place-9",
			OpenNow:      boolPtr(false),
			WeekdayText:  []string{"Mon: closed"},
			PhotoHandles: []string{"h1", "h2"},
		}

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionRefreshed, state)
		assert.Equal(t, "place-9", record.PlaceID())
		assert.Equal(t, []string{"https://photos.example/h1", "https://photos.example/h2"}, record.Photos)
		assert.Equal(t, "italian", record.Cuisine)

		saved, err := f.store.GetByID(ctx, model.CollectionRestaurant, "osm_node_1")
		require.NoError(t, err)
		assert.Equal(t, "place-9", saved["externalPlaceId"])
	})

	t.Run("更新に失敗したら保存済みレコードをそのまま返す", func(t *testing.T) {
		f := newPipelineFixture()
		placeID := "gone"
		stale := &model.Restaurant{
			Name:            "Trattoria A",
			ExternalPlaceID: &placeID,
			Photos:          []string{"p1"},
			SavedAt:         formatTime(f.clock.Now().Add(-100 * time.Hour)),
		}
		f.store.put(model.CollectionRestaurant, "osm_node_1", storedRestaurant(t, stale))

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionStale, state)
		assert.Equal(t, stale.SavedAt, record.SavedAt)
		assert.Equal(t, []string{"p1"}, record.Photos)
	})

	t.Run("キャッシュミスでは詳細を解決して保存する", func(t *testing.T) {
		f := newPipelineFixture()
		handles := []string{"a", "b", "c", "d", "e", "f", "g"}
		f.details.byName["Trattoria A"] = &model.PlaceDetails{
			PlaceID:          "place-1",
			Name:             "Trattoria A",
			FormattedAddress: "Via Roma 1",
			Rating:           floatPtr(4.5),
			RatingCount:      120,
			PhotoHandles:     handles,
			Location:         &model.LatLng{Lat: 42.351, Lng: 13.401},
		}

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionResolved, state)
		assert.Equal(t, "italian", record.Cuisine)
		assert.Len(t, record.Photos, model.MaxPhotos)
		assert.Equal(t, "https://photos.example/a", record.Photos[0])
		assert.Equal(t, formatTime(f.clock.Now()), record.SavedAt)

		saved, err := f.store.GetByID(ctx, model.CollectionRestaurant, "osm_node_1")
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "Via Roma 1", saved["formatted_address"])
		assert.NotContains(t, saved, model.FieldLiked)
	})

	t.Run("保存に失敗しても解決したレコードを返す", func(t *testing.T) {
		f := newPipelineFixture()
		f.store.fail("save", model.CollectionRestaurant, assert.AnError)
		f.details.byName["Trattoria A"] = &model.PlaceDetails{PlaceID: "place-1", Name: "Trattoria A"}

		record, state := f.p.SelectPoint(ctx, point)
		require.NotNil(t, record)
		assert.Equal(t, SelectionResolved, state)
	})

	t.Run("キャッシュミスでプロバイダが失敗したらnil", func(t *testing.T) {
		f := newPipelineFixture()
		f.details.err = &model.ProviderError{Status: "OVER_QUERY_LIMIT"}

		record, state := f.p.SelectPoint(ctx, point)
		assert.Nil(t, record)
		assert.Equal(t, SelectionFallback, state)
	})
}
