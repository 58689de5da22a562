package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeMetrics_Empty(t *testing.T) {
	s := ComputeMetrics(nil, CityMap{})
	assert.Zero(t, s.Total)
	assert.Empty(t, s.CountryCodes)
	assert.NotNil(t, s.CountryCodes)
	assert.Empty(t, s.HomeCity)
	assert.False(t, s.HasAllCoffeeContinents)
}

func TestComputeMetrics_Countries(t *testing.T) {
	records := []Record{
		{CountryISO2: "ET"}, {CountryISO2: "ke"}, {CountryISO2: "ET"},
		{CountryISO2: "CO"}, {CountryISO2: "ID"}, {CountryISO2: "US"},
		{CountryISO2: "PG"}, {CountryISO2: "JM"}, {CountryISO2: ""},
	}
	s := ComputeMetrics(records, CityMap{})

	assert.Equal(t, 9, s.Total)
	assert.Equal(t, []string{"ET", "KE", "CO", "ID", "US", "PG", "JM"}, s.CountryCodes)
	assert.True(t, s.HasAllCoffeeContinents)
	assert.Equal(t, []string{"ET", "KE"}, s.AfricanCountries)
	assert.Equal(t, []string{"ID"}, s.AsianCountries)
	assert.Equal(t, []string{"CO", "JM"}, s.LatinCountries)
	assert.Equal(t, []string{"ID", "PG", "JM"}, s.IslandCountries)
}

func TestComputeMetrics_Processes(t *testing.T) {
	records := []Record{
		{Process: "Washed", ProcessNorm: ProcessWashed, RoasterCity: "Tbilisi"},
		{Process: "Washed", ProcessNorm: ProcessWashed},
		{Process: "Natural", ProcessNorm: ProcessNatural},
		{Process: "Red Honey", ProcessNorm: ProcessHoney},
		{Process: "Carbonic Maceration", ProcessNorm: ProcessAnaerobic},
		{Process: "Koji", ProcessNorm: ProcessExperimental},
		{Process: "koji ", ProcessNorm: ProcessExperimental},
		{Process: "", ProcessNorm: ProcessOther},
	}
	s := ComputeMetrics(records, testCities())

	assert.Equal(t, 2, s.WashedCount)
	assert.Equal(t, 1, s.NaturalCount)
	assert.Equal(t, 1, s.HoneyCount)
	assert.True(t, s.HasHoney)
	assert.True(t, s.HasAnaerobic)
	assert.True(t, s.HasCarbonic)
	assert.True(t, s.GeotagWashed)
	assert.False(t, s.GeotagHoney)
	assert.Equal(t, []string{"washed", "natural", "honey", "anaerobic", "experimental"}, s.ProcessTypes)
	assert.Equal(t, []string{"carbonic maceration", "koji"}, s.ExperimentalMethods)
	assert.Equal(t, []string{"GE"}, s.RoasterCountries)
}

func TestComputeMetrics_Brewing(t *testing.T) {
	records := []Record{
		{BrewMethod: "Espresso", ConsumedCity: "Tbilisi"},
		{BrewMethod: "espresso", ConsumedCity: "tbilisi"},
		{BrewMethod: "Espresso", ConsumedCity: "Berlin"},
		{BrewMethod: "V60"},
		{BrewMethod: "Kalita Wave"},
		{BrewMethod: "Moka pot"},
	}
	s := ComputeMetrics(records, CityMap{})

	assert.Equal(t, []string{"tbilisi", "berlin"}, s.EspressoCities)
	assert.Equal(t, []string{"espresso", "v60", "kalita", "moka pot"}, s.BrewMethods)
	assert.Equal(t, FilterHits{V60: true, Kalita: true}, s.FilterHits)
}

func TestComputeMetrics_HomeCity(t *testing.T) {
	records := []Record{
		{ConsumedCity: "Berlin", WhereConsumed: "Cafe", CafeName: "Five Elephant"},
		{ConsumedCity: "Tbilisi", WhereConsumed: "Home"},
		{ConsumedCity: "tbilisi", WhereConsumed: "дома"},
		{ConsumedCity: "Berlin", WhereConsumed: "Cafe", CafeName: "five elephant "},
		{RoasterCity: "Tbilisi", RoasterName: "Stamba"},
		{RoasterCity: "Tbilisi", RoasterName: "Coffee Lab"},
		{RoasterCity: "Berlin", RoasterName: "Bonanza"},
	}
	s := ComputeMetrics(records, CityMap{})

	// Ties keep the city seen first.
	assert.Equal(t, "berlin", s.HomeCity)
	assert.Equal(t, 1, s.RoastersInHomeCity)
	assert.Equal(t, 2, s.HomeCups)
	assert.Equal(t, []string{"berlin", "tbilisi"}, s.ConsumedCities)
	assert.Equal(t, []string{"five elephant"}, s.Cafes)

	records = append(records, Record{ConsumedCity: "Tbilisi"})
	s = ComputeMetrics(records, CityMap{})
	assert.Equal(t, "tbilisi", s.HomeCity)
	assert.Equal(t, 2, s.RoastersInHomeCity)
}

func TestComputeMetrics_Regions(t *testing.T) {
	records := []Record{
		{CountryISO2: "ET", OriginRegion: "Guji"},
		{CountryISO2: "ET", OriginRegion: "guji "},
		{CountryISO2: "ET", OriginRegion: "Sidamo"},
		{CountryISO2: "ET", OriginRegion: "Yirgacheffe"},
		{CountryISO2: "CO", OriginRegion: "Huila"},
		{CountryISO2: "", OriginRegion: "Huila"},
		{CountryISO2: "KE", OriginRegion: ""},
	}
	s := ComputeMetrics(records, CityMap{})

	assert.Equal(t, 3, s.EthiopiaRegions)
	assert.Equal(t, 1, s.ColombiaRegions)
	assert.Equal(t, 5, s.UniqueRegions)
	assert.Equal(t, 3, s.MaxRegionsInCountry)
}
