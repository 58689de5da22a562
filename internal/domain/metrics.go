package domain

import (
	"slices"
	"strings"
)

// FilterHits records which of the three reference filter brewers appear.
type FilterHits struct {
	V60       bool `json:"v60"`
	Kalita    bool `json:"kalita"`
	Aeropress bool `json:"aeropress"`
}

// Snapshot is the set of statistics the achievement catalog is evaluated
// against. Slices keep first-seen order.
type Snapshot struct {
	Total                  int        `json:"total"`
	CountryCodes           []string   `json:"countryCodes"`
	Continents             []string   `json:"continents"`
	HasAllCoffeeContinents bool       `json:"hasAllCoffeeContinents"`
	ProcessTypes           []string   `json:"processTypes"`
	WashedCount            int        `json:"washedCount"`
	NaturalCount           int        `json:"naturalCount"`
	HoneyCount             int        `json:"honeyCount"`
	HasHoney               bool       `json:"hasHoney"`
	HasAnaerobic           bool       `json:"hasAnaerobic"`
	HasCarbonic            bool       `json:"hasCarbonic"`
	GeotagWashed           bool       `json:"geotagWashed"`
	GeotagHoney            bool       `json:"geotagHoney"`
	ExperimentalMethods    []string   `json:"experimentalMethods"`
	AfricanCountries       []string   `json:"africanCountries"`
	AsianCountries         []string   `json:"asianCountries"`
	LatinCountries         []string   `json:"latinCountries"`
	IslandCountries        []string   `json:"islandCountries"`
	EspressoCities         []string   `json:"espressoCities"`
	BrewMethods            []string   `json:"brewMethods"`
	FilterHits             FilterHits `json:"filterHits"`
	HomeCups               int        `json:"homeCups"`
	ConsumedCities         []string   `json:"consumedCities"`
	HomeCity               string     `json:"homeCity"`
	RoastersInHomeCity     int        `json:"roastersInHomeCity"`
	Cafes                  []string   `json:"cafes"`
	RoasterCountries       []string   `json:"roasterCountries"`
	UniqueRegions          int        `json:"uniqueRegions"`
	EthiopiaRegions        int        `json:"ethiopiaRegions"`
	ColombiaRegions        int        `json:"colombiaRegions"`
	MaxRegionsInCountry    int        `json:"maxRegionsInCountry"`
}

// ComputeMetrics scans every record once. Roaster-city lookups use the city
// map to decide geotag flags and roaster countries.
func ComputeMetrics(records []Record, cities CityMap) Snapshot {
	var (
		countries      = newOrderedSet()
		continents     = newOrderedSet()
		processTypes   = newOrderedSet()
		experimental   = newOrderedSet()
		african        = newOrderedSet()
		asian          = newOrderedSet()
		latin          = newOrderedSet()
		island         = newOrderedSet()
		espressoCities = newOrderedSet()
		brewMethods    = newOrderedSet()
		consumedCities = newOrderedSet()
		cafes          = newOrderedSet()
		roasterCountry = newOrderedSet()
		globalRegions  = newOrderedSet()
		ethiopia       = newOrderedSet()
		colombia       = newOrderedSet()

		countryRegions = make(map[string]*orderedSet)
		cityVisits     = make(map[string]int)
		roastersByCity = make(map[string]*orderedSet)

		s Snapshot
	)

	for _, rec := range records {
		iso := NormalizeISO2(rec.CountryISO2)
		if iso != "" {
			countries.add(iso)
			if c := ContinentOf(iso); c != "" {
				continents.add(c)
			}
			if IsAfrican(iso) {
				african.add(iso)
			}
			if IsAsian(iso) {
				asian.add(iso)
			}
			if IsLatinAmerican(iso) {
				latin.add(iso)
			}
			if IsIsland(iso) {
				island.add(iso)
			}
		}

		if region := CanonicalKey(rec.OriginRegion); region != "" {
			countryKey := iso
			if countryKey == "" {
				countryKey = "XX"
			}
			globalRegions.add(countryKey + "::" + region)
			if countryRegions[iso] == nil {
				countryRegions[iso] = newOrderedSet()
			}
			countryRegions[iso].add(region)
			switch iso {
			case "ET":
				ethiopia.add(region)
			case "CO":
				colombia.add(region)
			}
		}

		processRaw := strings.ToLower(strings.TrimSpace(rec.Process))
		norm := rec.ProcessNorm
		if norm != "" && norm != ProcessOther {
			processTypes.add(string(norm))
		}
		switch norm {
		case ProcessWashed:
			s.WashedCount++
		case ProcessNatural:
			s.NaturalCount++
		case ProcessHoney:
			s.HoneyCount++
			s.HasHoney = true
		case ProcessAnaerobic:
			s.HasAnaerobic = true
			experimental.add(firstNonEmpty(processRaw, string(norm)))
		case ProcessExperimental:
			experimental.add(firstNonEmpty(processRaw, string(norm)))
		}
		if carbonicRe.MatchString(processRaw) {
			s.HasCarbonic = true
			experimental.add(firstNonEmpty(processRaw, "carbonic"))
		}

		if roaster, ok := cities.Lookup(rec.RoasterCity); ok {
			if norm == ProcessWashed {
				s.GeotagWashed = true
			}
			if norm == ProcessHoney {
				s.GeotagHoney = true
			}
			if code := strings.ToUpper(roaster.CountryCode); code != "" {
				roasterCountry.add(code)
			}
		}

		roasterName := CanonicalKey(rec.RoasterName)
		roasterCity := CanonicalKey(rec.RoasterCity)
		if roasterName != "" && roasterCity != "" {
			if roastersByCity[roasterCity] == nil {
				roastersByCity[roasterCity] = newOrderedSet()
			}
			roastersByCity[roasterCity].add(roasterName)
		}

		consumedCity := CanonicalKey(rec.ConsumedCity)
		if consumedCity != "" {
			consumedCities.add(consumedCity)
			cityVisits[consumedCity]++
		}

		for _, method := range CanonicalBrewMethods(rec.BrewMethod) {
			brewMethods.add(method)
			switch method {
			case BrewEspresso:
				if consumedCity != "" {
					espressoCities.add(consumedCity)
				}
			case BrewV60:
				s.FilterHits.V60 = true
			case BrewKalita:
				s.FilterHits.Kalita = true
			case BrewAeropress:
				s.FilterHits.Aeropress = true
			}
		}

		if IsHome(rec.WhereConsumed) {
			s.HomeCups++
		}
		if cafe := CanonicalKey(rec.CafeName); cafe != "" {
			cafes.add(cafe)
		}
	}

	maxVisits := 0
	for _, city := range consumedCities.items {
		if n := cityVisits[city]; n > maxVisits {
			s.HomeCity = city
			maxVisits = n
		}
	}
	if set, ok := roastersByCity[s.HomeCity]; ok && s.HomeCity != "" {
		s.RoastersInHomeCity = set.len()
	}
	for _, regions := range countryRegions {
		s.MaxRegionsInCountry = max(s.MaxRegionsInCountry, regions.len())
	}

	s.Total = len(records)
	s.CountryCodes = countries.list()
	s.Continents = continents.list()
	s.HasAllCoffeeContinents = !slices.ContainsFunc(CoffeeContinents, func(c string) bool {
		_, ok := continents.index[c]
		return !ok
	})
	s.ProcessTypes = processTypes.list()
	s.ExperimentalMethods = experimental.list()
	s.AfricanCountries = african.list()
	s.AsianCountries = asian.list()
	s.LatinCountries = latin.list()
	s.IslandCountries = island.list()
	s.EspressoCities = espressoCities.list()
	s.BrewMethods = brewMethods.list()
	s.ConsumedCities = consumedCities.list()
	s.Cafes = cafes.list()
	s.RoasterCountries = roasterCountry.list()
	s.UniqueRegions = globalRegions.len()
	s.EthiopiaRegions = ethiopia.len()
	s.ColombiaRegions = colombia.len()
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
