package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCityAggregates(t *testing.T) {
	cities := testCities()

	t.Run("spellings merge into one aggregate", func(t *testing.T) {
		records := []Record{
			{RoasterCity: "Tbilisi", RoasterName: "Stamba"},
			{RoasterCity: "tbilisi ", RoasterName: "stamba "},
			{RoasterCity: " TBILISI", RoasterName: "Coffee Lab"},
		}
		aggs := BuildCityAggregates(records, cities)
		require.Len(t, aggs, 1)
		assert.Equal(t, "Tbilisi", aggs[0].City)
		assert.Equal(t, []string{"Stamba", "Coffee Lab"}, aggs[0].Roasters)
		assert.Equal(t, CityKindRoaster, aggs[0].Kind)
		assert.Equal(t, 2, aggs[0].Size)
	})

	t.Run("roaster and cafe make both", func(t *testing.T) {
		records := []Record{
			{RoasterCity: "Berlin", RoasterName: "Bonanza"},
			{ConsumedCity: "Berlin", CafeName: "Five Elephant", WhereConsumed: "Cafe"},
		}
		aggs := BuildCityAggregates(records, cities)
		require.Len(t, aggs, 1)
		assert.Equal(t, CityKindBoth, aggs[0].Kind)
		assert.Equal(t, []string{"Bonanza"}, aggs[0].Roasters)
		assert.Equal(t, []string{"Five Elephant"}, aggs[0].Places)
		assert.False(t, aggs[0].Home)
		assert.Equal(t, 2, aggs[0].Size)
	})

	t.Run("home counts toward size and kind", func(t *testing.T) {
		records := []Record{
			{RoasterCity: "Tbilisi", RoasterName: "Stamba", ConsumedCity: "Tbilisi", WhereConsumed: "Home"},
		}
		aggs := BuildCityAggregates(records, cities)
		require.Len(t, aggs, 1)
		assert.True(t, aggs[0].Home)
		assert.Equal(t, CityKindBoth, aggs[0].Kind)
		assert.Equal(t, 2, aggs[0].Size)
		assert.Empty(t, aggs[0].Places)
		assert.NotNil(t, aggs[0].Places)
	})

	t.Run("unresolved cities are skipped", func(t *testing.T) {
		aggs := BuildCityAggregates([]Record{{RoasterCity: "Atlantis", RoasterName: "X"}}, cities)
		assert.Empty(t, aggs)
	})

	t.Run("empty consumed city has minimum size", func(t *testing.T) {
		aggs := BuildCityAggregates([]Record{{ConsumedCity: "Berlin", WhereConsumed: "Cafe"}}, cities)
		require.Len(t, aggs, 1)
		assert.Equal(t, CityKindConsumed, aggs[0].Kind)
		assert.Equal(t, 1, aggs[0].Size)
	})

	t.Run("first seen order", func(t *testing.T) {
		records := []Record{
			{ConsumedCity: "Berlin"},
			{RoasterCity: "Tbilisi"},
			{ConsumedCity: "berlin"},
		}
		aggs := BuildCityAggregates(records, cities)
		require.Len(t, aggs, 2)
		assert.Equal(t, "Berlin", aggs[0].City)
		assert.Equal(t, "Tbilisi", aggs[1].City)
	})
}

func TestCityFeatures(t *testing.T) {
	aggs := BuildCityAggregates([]Record{{RoasterCity: "Berlin", RoasterName: "Bonanza"}}, testCities())
	fc := CityFeatures(aggs)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.Equal(t, Position{13.404954, 52.520008}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, "roaster", fc.Features[0].Properties["kind"])
}

func TestVisitedCountries(t *testing.T) {
	records := []Record{
		{CountryISO2: "et"},
		{CountryISO2: "KE"},
		{CountryISO2: "ET"},
		{CountryISO2: ""},
		{CountryISO2: "Ethiopia"},
	}
	assert.Equal(t, []string{"ET", "KE"}, VisitedCountries(records))
	assert.Equal(t, []string{}, VisitedCountries(nil))
}

func TestVisitedFilter(t *testing.T) {
	f := VisitedFilter([]string{"ET", "KE"})
	require.Len(t, f, 4)
	assert.Equal(t, "all", f[0])
	assert.Equal(t, []any{"in", []any{"get", "iso_3166_1"}, []any{"literal", []any{"ET", "KE"}}}, f[3])
}
