package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Gourmet-App/internal/domain/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestRestaurantRow_ToRawPOI(t *testing.T) {
	t.Run("nodeは座標をそのまま持つ", func(t *testing.T) {
		raw, err := restaurantRow{
			OSMType: "node", OSMID: 1, Lat: floatPtr(42.351), Lon: floatPtr(13.401),
			Tags: []byte(`{"name":"Trattoria A","cuisine":"italian"}`),
		}.toRawPOI()
		require.NoError(t, err)
		assert.Equal(t, model.ElementNode, raw.Type)
		require.NotNil(t, raw.Lat)
		assert.Equal(t, 42.351, *raw.Lat)
		assert.Nil(t, raw.Center)
		assert.Equal(t, "italian", raw.Tags["cuisine"])
	})

	t.Run("wayは重心として持つ", func(t *testing.T) {
		raw, err := restaurantRow{OSMType: "way", OSMID: 2, Lat: floatPtr(42.36), Lon: floatPtr(13.41)}.toRawPOI()
		require.NoError(t, err)
		assert.Nil(t, raw.Lat)
		require.NotNil(t, raw.Center)
		assert.Equal(t, 13.41, raw.Center.Lon)
		assert.Nil(t, raw.Tags)
	})

	t.Run("未知の種別はエラー", func(t *testing.T) {
		_, err := restaurantRow{OSMType: "area", OSMID: 3}.toRawPOI()
		assert.Error(t, err)
	})

	t.Run("tagsが壊れていればエラー", func(t *testing.T) {
		_, err := rowsToRawPOIs([]restaurantRow{{OSMType: "node", OSMID: 4, Tags: []byte(`{"name":`)}})
		assert.Error(t, err)
	})
}
