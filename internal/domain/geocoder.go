package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	PlaceName        string
	Confidence       float64 // 0.0–1.0 provider confidence score
	CountryCode      string  // ISO2, upper case
	CountryName      string
}

// Empty reports whether the provider found nothing.
func (r GeocodingResult) Empty() bool {
	return r.FormattedAddress == "" && r.Lat == 0 && r.Lon == 0
}

// CityPoint converts the result into a city coordinate.
func (r GeocodingResult) CityPoint() CityPoint {
	return CityPoint{
		Lng:         r.Lon,
		Lat:         r.Lat,
		CountryCode: r.CountryCode,
		CountryName: r.CountryName,
	}
}

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// ForwardGeocode looks up a city or locality by name.
	ForwardGeocode(ctx context.Context, query string) (GeocodingResult, error)
}
