package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCities() CityMap {
	m := CityMap{}
	m.Add("Tbilisi", CityPoint{Lng: 44.827096, Lat: 41.715137, CountryCode: "GE"})
	m.Add("Berlin", CityPoint{Lng: 13.404954, Lat: 52.520008, CountryCode: "DE"})
	return m
}

func TestBuildRoutes(t *testing.T) {
	cities := testCities()
	records := []Record{
		{Lng: 38.4, Lat: 6.8, FarmLng5: 38.4, FarmLat5: 6.8, RoasterCity: "Tbilisi", ConsumedCity: "Berlin"},
		{Lng: -75.6, Lat: 4.5, FarmLng5: -75.6, FarmLat5: 4.5, RoasterCity: "tbilisi ", ConsumedCity: "Atlantis"},
		{Lng: 1, Lat: 1, FarmLng5: 1, FarmLat5: 1, RoasterCity: "Atlantis", ConsumedCity: "Berlin"},
	}

	routes := BuildRoutes(records, cities)
	require.Len(t, routes, 3)

	assert.Equal(t, RouteFarmToRoaster, routes[0].Kind)
	assert.Equal(t, Position{38.4, 6.8}, routes[0].From)
	assert.Equal(t, Position{44.827096, 41.715137}, routes[0].To)

	assert.Equal(t, RouteRoasterToConsumed, routes[1].Kind)
	assert.Equal(t, routes[0].To, routes[1].From)
	assert.InDelta(t, 13.40495, routes[1].Identity["consumedLng5"], 1e-9)

	assert.Equal(t, RouteFarmToRoaster, routes[2].Kind)
}

func TestRouteIdentity_MatchesPointProperties(t *testing.T) {
	cities := testCities()
	rec := Record{Lng: 38.123456, Lat: 6.987654, FarmLng5: Round5(38.123456), FarmLat5: Round5(6.987654), RoasterCity: "Tbilisi"}

	routes := BuildRoutes([]Record{rec}, cities)
	require.Len(t, routes, 1)

	props := rec.Feature().Properties
	assert.Equal(t, props["farmLng5"], routes[0].Identity["farmLng5"])
	assert.Equal(t, props["farmLat5"], routes[0].Identity["farmLat5"])
}

func TestRouteFeatures(t *testing.T) {
	fc := RouteFeatures(nil)
	assert.Equal(t, "FeatureCollection", fc.Type)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)

	routes := BuildRoutes([]Record{{RoasterCity: "Tbilisi"}}, testCities())
	fc = RouteFeatures(routes)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "LineString", fc.Features[0].Geometry.Type)
	assert.Equal(t, "farm_to_roaster", fc.Features[0].Properties["kind"])
}

func TestRouteHighlightFilter(t *testing.T) {
	cities := testCities()

	t.Run("no routes matches nothing", func(t *testing.T) {
		f := RouteHighlightFilter(Record{RoasterCity: "Atlantis"}, cities)
		assert.Equal(t, matchNothing, f)
	})

	t.Run("both legs", func(t *testing.T) {
		rec := Record{Lng: 38.4, Lat: 6.8, FarmLng5: 38.4, FarmLat5: 6.8, RoasterCity: "Tbilisi", ConsumedCity: "Berlin"}
		f := RouteHighlightFilter(rec, cities)
		require.Len(t, f, 3)
		assert.Equal(t, "any", f[0])

		farm, ok := f[1].([]any)
		require.True(t, ok)
		assert.Equal(t, "all", farm[0])
		assert.Equal(t, []any{"==", []any{"get", "kind"}, "farm_to_roaster"}, farm[1])
		assert.Equal(t, []any{"==", []any{"get", "farmLng5"}, 38.4}, farm[2])
		// kind plus four endpoint keys
		assert.Len(t, farm, 6)

		consumed, ok := f[2].([]any)
		require.True(t, ok)
		assert.Equal(t, []any{"==", []any{"get", "kind"}, "roaster_to_consumed"}, consumed[1])
	})
}
