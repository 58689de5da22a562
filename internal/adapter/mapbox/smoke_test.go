//go:build mapbox

package mapbox

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, 5, testMetrics(), testLogger())
}

func TestSmoke_ForwardGeocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Tbilisi")
	require.NoError(t, err)

	assert.InDelta(t, 41.71, result.Lat, 0.2, "lat should be near Tbilisi")
	assert.InDelta(t, 44.79, result.Lon, 0.2, "lon should be near Tbilisi")
	assert.Equal(t, "GE", result.CountryCode)
	assert.NotEmpty(t, result.CountryName)
}

func TestSmoke_ForwardGeocode_Cyrillic(t *testing.T) {
	c := smokeClient(t)

	result, err := c.ForwardGeocode(context.Background(), "Ижевск")
	require.NoError(t, err)
	assert.Equal(t, "RU", result.CountryCode)
}

func TestSmoke_ForwardGeocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Fuzzy matching may still return something; only the absence of an
	// error is asserted.
	_, err := c.ForwardGeocode(context.Background(), "XYZNONEXISTENT99")
	require.NoError(t, err)
}

func TestSmoke_CachedGeocoder(t *testing.T) {
	c := smokeClient(t)
	cached := NewCachedGeocoder(c, 10, testMetrics())

	r1, err := cached.ForwardGeocode(context.Background(), "Belgrade")
	require.NoError(t, err)
	assert.Equal(t, "RS", r1.CountryCode)

	r2, err := cached.ForwardGeocode(context.Background(), "belgrade")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
