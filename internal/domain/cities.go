package domain

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// City aggregate kinds.
const (
	CityKindBoth     = "both"
	CityKindRoaster  = "roaster"
	CityKindConsumed = "consumed"
)

// CityAggregate is one map marker summarizing every roaster and venue seen
// in a city.
type CityAggregate struct {
	City     string   `json:"city"`
	Lng      float64  `json:"lng"`
	Lat      float64  `json:"lat"`
	Roasters []string `json:"roasters"`
	Places   []string `json:"places"`
	Home     bool     `json:"home"`
	Kind     string   `json:"kind"`
	Size     int      `json:"size"`
}

// Feature renders the aggregate as a point feature.
func (c CityAggregate) Feature() Feature {
	return Feature{
		Type:     "Feature",
		Geometry: pointGeometry(Position{c.Lng, c.Lat}),
		Properties: map[string]any{
			"city":     c.City,
			"roasters": c.Roasters,
			"places":   c.Places,
			"home":     c.Home,
			"kind":     c.Kind,
			"size":     c.Size,
		},
	}
}

type cityAccumulator struct {
	city     string
	pt       CityPoint
	roasters *orderedSet
	places   *orderedSet
	home     bool
}

// BuildCityAggregates groups roaster and consumption activity by canonical
// city name. Cities that do not resolve in the city map are skipped.
// Aggregates come out in first-seen order.
func BuildCityAggregates(records []Record, cities CityMap) []CityAggregate {
	byKey := make(map[string]*cityAccumulator)
	var order []string

	touch := func(name string) *cityAccumulator {
		city := NormalizeName(name)
		if city == "" {
			return nil
		}
		pt, ok := cities.Lookup(city)
		if !ok {
			return nil
		}
		key := CanonicalKey(city)
		acc, ok := byKey[key]
		if !ok {
			acc = &cityAccumulator{city: city, pt: pt, roasters: newOrderedSet(), places: newOrderedSet()}
			byKey[key] = acc
			order = append(order, key)
		}
		return acc
	}

	for _, rec := range records {
		if acc := touch(rec.RoasterCity); acc != nil {
			if name := CanonicalKey(rec.RoasterName); name != "" {
				acc.roasters.add(name)
			}
		}
		if acc := touch(rec.ConsumedCity); acc != nil {
			if name := CanonicalKey(rec.CafeName); name != "" {
				acc.places.add(name)
			}
			if IsHome(rec.WhereConsumed) {
				acc.home = true
			}
		}
	}

	out := make([]CityAggregate, 0, len(order))
	for _, key := range order {
		acc := byKey[key]
		roasters := displayNames(acc.roasters.list())
		places := displayNames(acc.places.list())

		kind := CityKindConsumed
		switch {
		case len(roasters) > 0 && (len(places) > 0 || acc.home):
			kind = CityKindBoth
		case len(roasters) > 0:
			kind = CityKindRoaster
		}

		size := len(roasters) + len(places)
		if acc.home {
			size++
		}
		out = append(out, CityAggregate{
			City:     acc.city,
			Lng:      acc.pt.Lng,
			Lat:      acc.pt.Lat,
			Roasters: roasters,
			Places:   places,
			Home:     acc.home,
			Kind:     kind,
			Size:     max(size, 1),
		})
	}
	return out
}

// CityFeatures renders aggregates as a feature collection.
func CityFeatures(aggregates []CityAggregate) FeatureCollection {
	features := make([]Feature, 0, len(aggregates))
	for _, c := range aggregates {
		features = append(features, c.Feature())
	}
	return NewFeatureCollection(features)
}

// displayNames title-cases lower-cased names for display.
func displayNames(names []string) []string {
	caser := cases.Title(language.Und)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = caser.String(n)
	}
	return out
}

// VisitedCountries returns the distinct valid ISO2 codes across records in
// first-seen order.
func VisitedCountries(records []Record) []string {
	set := newOrderedSet()
	for _, r := range records {
		if code := NormalizeISO2(r.CountryISO2); code != "" {
			set.add(code)
		}
	}
	return set.list()
}

// worldview selects which disputed-border variant of the country layer is
// drawn.
const worldview = "US"

// VisitedFilter returns the map-engine filter that highlights the given
// countries on the country-boundaries layer.
func VisitedFilter(iso2 []string) []any {
	list := make([]any, len(iso2))
	for i, c := range iso2 {
		list[i] = c
	}
	return []any{
		"all",
		[]any{"==", []any{"get", "disputed"}, "false"},
		[]any{"any",
			[]any{"==", "all", []any{"get", "worldview"}},
			[]any{"in", worldview, []any{"get", "worldview"}},
		},
		[]any{"in", []any{"get", "iso_3166_1"}, []any{"literal", list}},
	}
}
