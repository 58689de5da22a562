package domain

import "strings"

// CityPoint is a geocoded city.
type CityPoint struct {
	Lng         float64 `json:"lng"`
	Lat         float64 `json:"lat"`
	CountryCode string  `json:"countryCode,omitempty"`
	CountryName string  `json:"countryName,omitempty"`
}

// Position returns the point as a [lng, lat] pair.
func (p CityPoint) Position() Position {
	return Position{p.Lng, p.Lat}
}

// CityMap maps city-name keys to coordinates.
type CityMap map[string]CityPoint

// Add stores a point under the trimmed name and under its canonical key.
func (m CityMap) Add(name string, pt CityPoint) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return
	}
	m[raw] = pt
	m[CanonicalKey(raw)] = pt
}

// Lookup resolves a city name by trying the canonical key, then the trimmed
// name as written, then its lower-cased form.
func (m CityMap) Lookup(name string) (CityPoint, bool) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return CityPoint{}, false
	}
	for _, key := range []string{CanonicalKey(raw), raw, strings.ToLower(raw)} {
		if pt, ok := m[key]; ok {
			return pt, true
		}
	}
	return CityPoint{}, false
}

// staticCities are known coordinates used when geocoding is unavailable.
var staticCities = func() map[string]CityPoint {
	entries := []struct {
		names []string
		pt    CityPoint
	}{
		{[]string{"Belgrade", "Белград"}, CityPoint{Lng: 20.456897, Lat: 44.817813, CountryCode: "RS", CountryName: "Serbia"}},
		{[]string{"Moscow", "Москва"}, CityPoint{Lng: 37.617494, Lat: 55.750446, CountryCode: "RU", CountryName: "Russia"}},
		{[]string{"Tbilisi", "Тбилиси"}, CityPoint{Lng: 44.827096, Lat: 41.715137, CountryCode: "GE", CountryName: "Georgia"}},
		{[]string{"Rome", "Roma"}, CityPoint{Lng: 12.496366, Lat: 41.902782, CountryCode: "IT", CountryName: "Italy"}},
		{[]string{"Florence", "Firenze"}, CityPoint{Lng: 11.255814, Lat: 43.769562, CountryCode: "IT", CountryName: "Italy"}},
		{[]string{"Istanbul", "İstanbul"}, CityPoint{Lng: 28.978359, Lat: 41.008238, CountryCode: "TR", CountryName: "Turkey"}},
		{[]string{"Ижевск", "Izhevsk"}, CityPoint{Lng: 53.193783, Lat: 56.852676, CountryCode: "RU", CountryName: "Russia"}},
	}
	m := make(map[string]CityPoint)
	for _, e := range entries {
		for _, n := range e.names {
			m[CanonicalKey(n)] = e.pt
		}
	}
	return m
}()

// StaticCity returns a built-in coordinate for a handful of frequently
// logged cities.
func StaticCity(name string) (CityPoint, bool) {
	key := CanonicalKey(name)
	if key == "" {
		return CityPoint{}, false
	}
	pt, ok := staticCities[key]
	return pt, ok
}
