package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCSVURL is the published tasting sheet.
const DefaultCSVURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vSbms6-9Pie6VdyXzbjiMwWeIF-mxMvMiyFHaRI1DJE0nPNkSG99lewaeeU8YIuj7Y8vxzJGOD2md1v/pub?gid=1055803810&single=true&output=csv"

// DefaultFile is the optional YAML overlay read by the CLI.
const DefaultFile = "coffeemap.yaml"

// Config holds all service settings, populated from environment variables
// and an optional YAML file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Row sources, tried in order: CSV URLs, HTML URLs, the fallback file,
	// then the bundled dataset.
	CSVURLs       []string
	HTMLURLs      []string
	FallbackCSV   string
	SourceTimeout time.Duration

	// RefreshInterval reloads the sheet periodically while serving. Zero
	// disables refreshing.
	RefreshInterval time.Duration

	// Mapbox geocoding configuration.
	MapboxToken        string
	MapboxEnabled      bool
	MapboxTimeout      time.Duration
	MapboxCacheSize    int
	MapboxRate         float64
	GeocodeConcurrency int
	CityCachePath      string

	KafkaBrokers []string
	KafkaTopic   string

	Prefill Prefill
}

// Prefill configures the form prefill link built from extracted label text.
type Prefill struct {
	Enabled     bool              `yaml:"enabled"`
	BaseURL     string            `yaml:"base_url"`
	EntryMap    map[string]string `yaml:"entry_map"`
	ExtraParams map[string]string `yaml:"extra_params"`
}

// fileConfig is the YAML overlay. Environment variables take precedence
// over file values, which take precedence over built-in defaults.
type fileConfig struct {
	Sources struct {
		CSVURLs     []string `yaml:"csv_urls"`
		HTMLURLs    []string `yaml:"html_urls"`
		FallbackCSV string   `yaml:"fallback_csv"`
	} `yaml:"sources"`
	Prefill *Prefill `yaml:"prefill"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	return load(fileConfig{})
}

// LoadFile reads the YAML overlay at path and then applies the environment.
// A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	return load(fc)
}

func load(fc fileConfig) (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sourceTimeout, err := parseDuration("SOURCE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	refreshInterval, err := time.ParseDuration(envOrDefault("REFRESH_INTERVAL", "0s"))
	if err != nil || refreshInterval < 0 {
		return nil, errors.New("invalid REFRESH_INTERVAL")
	}

	mapboxRate, err := strconv.ParseFloat(envOrDefault("MAPBOX_RATE", "10"), 64)
	if err != nil || mapboxRate <= 0 {
		return nil, errors.New("invalid MAPBOX_RATE")
	}
	concurrency, err := strconv.Atoi(envOrDefault("GEOCODE_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 || concurrency > 64 {
		return nil, errors.New("GEOCODE_CONCURRENCY must be between 1 and 64")
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	csvDefault := DefaultCSVURL
	if len(fc.Sources.CSVURLs) > 0 {
		csvDefault = strings.Join(fc.Sources.CSVURLs, ",")
	}
	fallbackDefault := "data/coffee.csv"
	if fc.Sources.FallbackCSV != "" {
		fallbackDefault = fc.Sources.FallbackCSV
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CSVURLs:         parseList(envOrDefault("CSV_URLS", csvDefault)),
		HTMLURLs:        parseList(envOrDefault("HTML_URLS", strings.Join(fc.Sources.HTMLURLs, ","))),
		FallbackCSV:     envOrDefault("FALLBACK_CSV", fallbackDefault),
		SourceTimeout:   sourceTimeout,
		RefreshInterval: refreshInterval,

		MapboxToken:        mapboxToken,
		MapboxEnabled:      mapboxEnabled,
		MapboxTimeout:      mapboxTimeout,
		MapboxCacheSize:    parseMapboxCacheSize(),
		MapboxRate:         mapboxRate,
		GeocodeConcurrency: concurrency,
		CityCachePath:      envOrDefault("CITY_CACHE_PATH", "coffee_city_cache_v1.db"),

		KafkaBrokers: parseList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "coffee-records"),

		Prefill: defaultPrefill(),
	}
	if fc.Prefill != nil {
		cfg.Prefill = mergePrefill(cfg.Prefill, *fc.Prefill)
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	if cfg.Prefill.Enabled && cfg.Prefill.BaseURL == "" {
		return nil, errors.New("prefill.base_url is required when prefill is enabled")
	}

	return cfg, nil
}

// PrefillFields are the form fields a prefill link can carry.
var PrefillFields = []string{
	"coffeeName", "roasterName", "country", "region", "farm", "process", "brewMethod", "notes", "rawText",
}

func defaultPrefill() Prefill {
	entries := make(map[string]string, len(PrefillFields))
	for _, f := range PrefillFields {
		entries[f] = ""
	}
	return Prefill{
		EntryMap:    entries,
		ExtraParams: map[string]string{"usp": "pp_url"},
	}
}

func mergePrefill(base, overlay Prefill) Prefill {
	base.Enabled = overlay.Enabled
	if overlay.BaseURL != "" {
		base.BaseURL = overlay.BaseURL
	}
	for k, v := range overlay.EntryMap {
		base.EntryMap[k] = v
	}
	if overlay.ExtraParams != nil {
		base.ExtraParams = overlay.ExtraParams
	}
	return base
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseList splits a comma-separated value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
