package citycache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"github.com/couchcryptid/coffee-map/internal/domain"
)

// Namespace versions the cache table so a format change can start fresh.
const Namespace = "coffee_city_cache_v1"

// SQLiteStore persists geocoded cities between runs.
type SQLiteStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// Open opens (creating if needed) the cache database at path. WAL mode and a
// busy timeout let concurrent lookups write without "database locked" errors.
func Open(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open city cache: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping city cache: %w", err)
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure city cache schema: %w", err)
	}
	return &SQLiteStore{db: db, clock: clockwork.NewRealClock()}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS ` + Namespace + ` (
	  name TEXT PRIMARY KEY,
	  lng REAL NOT NULL,
	  lat REAL NOT NULL,
	  country_code TEXT NOT NULL DEFAULT '',
	  country_name TEXT NOT NULL DEFAULT '',
	  updated_at TIMESTAMP NOT NULL
	);
	`)
	return err
}

// Get returns the cached point for a city name, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, name string) (domain.CityPoint, error) {
	key := Key(name)
	if key == "" {
		return domain.CityPoint{}, ErrNotFound
	}
	var pt domain.CityPoint
	err := s.db.QueryRowContext(ctx,
		`SELECT lng, lat, country_code, country_name FROM `+Namespace+` WHERE name = ?`, key,
	).Scan(&pt.Lng, &pt.Lat, &pt.CountryCode, &pt.CountryName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CityPoint{}, ErrNotFound
	}
	if err != nil {
		return domain.CityPoint{}, fmt.Errorf("query city %q: %w", key, err)
	}
	return pt, nil
}

// Put upserts a city. The last write for a key wins.
func (s *SQLiteStore) Put(ctx context.Context, name string, pt domain.CityPoint) error {
	key := Key(name)
	if key == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO `+Namespace+` (name, lng, lat, country_code, country_name, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
	  lng = excluded.lng,
	  lat = excluded.lat,
	  country_code = excluded.country_code,
	  country_name = excluded.country_name,
	  updated_at = excluded.updated_at;
	`, key, pt.Lng, pt.Lat, pt.CountryCode, pt.CountryName, s.clock.Now().UTC())
	if err != nil {
		return fmt.Errorf("save city %q: %w", key, err)
	}
	return nil
}

// Len returns the number of cached cities.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+Namespace).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cities: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
