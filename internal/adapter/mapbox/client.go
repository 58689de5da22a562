package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/coffee-map/internal/domain"
	"github.com/couchcryptid/coffee-map/internal/observability"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	limiter    *RateLimiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client. Requests are throttled to
// rps per second across all goroutines sharing the client.
func NewClient(token string, timeout time.Duration, rps float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		limiter: NewRateLimiter(rps),
		metrics: metrics,
		logger:  logger,
	}
}

// ForwardGeocode resolves a city or locality name to coordinates and the
// containing country.
func (c *Client) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.GeocodingResult{}, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(query))
	params := url.Values{
		"access_token": {c.token},
		"types":        {"place,locality"},
		"language":     {"ru,en"},
		"limit":        {"1"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		c.logger.Warn("geocode request failed", "query", query, "error", err)
	case result.Empty():
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		c.logger.Debug("geocode returned no features", "query", query)
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("forward geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	if len(f.Center) != 2 {
		return domain.GeocodingResult{}, nil
	}
	result := domain.GeocodingResult{
		Lon:              f.Center[0],
		Lat:              f.Center[1],
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
	}
	if country, ok := f.country(); ok {
		result.CountryCode = shortCodeISO2(country.ShortCode)
		result.CountryName = firstNonEmpty(country.Text, country.PlaceName)
	}
	if result.CountryCode == "" {
		result.CountryCode = shortCodeISO2(f.Properties.ShortCode)
	}
	return result, nil
}

// shortCodeISO2 turns "ge" or "us-ca" style codes into an upper-case code,
// keeping the last segment.
func shortCodeISO2(code string) string {
	if code == "" {
		return ""
	}
	parts := strings.Split(code, "-")
	return strings.ToUpper(parts[len(parts)-1])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string        `json:"id"`
	Center     []float64     `json:"center"` // [lon, lat]
	PlaceName  string        `json:"place_name"`
	Text       string        `json:"text"`
	Relevance  float64       `json:"relevance"`
	ShortCode  string        `json:"short_code,omitempty"`
	Properties properties    `json:"properties"`
	Context    []contextItem `json:"context,omitempty"`
}

type properties struct {
	ShortCode string `json:"short_code,omitempty"`
}

type contextItem struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	PlaceName  string     `json:"place_name,omitempty"`
	ShortCode  string     `json:"short_code,omitempty"`
	Properties properties `json:"properties"`
}

// country returns the country context entry, or the feature itself when it
// is a country.
func (f feature) country() (contextItem, bool) {
	for _, c := range f.Context {
		if strings.HasPrefix(c.ID, "country.") {
			c.ShortCode = firstNonEmpty(c.ShortCode, c.Properties.ShortCode)
			return c, true
		}
	}
	if strings.HasPrefix(f.ID, "country.") {
		return contextItem{
			ID:        f.ID,
			Text:      f.Text,
			PlaceName: f.PlaceName,
			ShortCode: firstNonEmpty(f.ShortCode, f.Properties.ShortCode),
		}, true
	}
	return contextItem{}, false
}
