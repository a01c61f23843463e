package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port     string
	Timezone string
	DBPath   string
	LogLevel string

	// AllowCollectionGroup is the store rule that lets the flat visit query
	// through. With it off every load walks the farmer/field hierarchy.
	AllowCollectionGroup bool
	ResolverParallelism  int
	FlatBatchSize        int

	EnableAuthHeader bool
	NominatimURL     string
	GeocodeUserAgent string
}

// Load reads an optional .env file and the process environment.
func Load() (AppConfig, error) {
	_ = godotenv.Load() // .env is optional

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getBool := func(k string, def bool) (bool, error) {
		v := os.Getenv(k)
		if v == "" {
			return def, nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("%s: %w", k, err)
		}
		return b, nil
	}
	getInt := func(k string, def int) (int, error) {
		v := os.Getenv(k)
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("%s: want a positive integer, got %q", k, v)
		}
		return n, nil
	}

	cfg := AppConfig{
		Port:             get("PORT", "8080"),
		Timezone:         get("TZ", "Europe/Istanbul"),
		DBPath:           get("DB_PATH", "tarlatakip.db"),
		LogLevel:         get("LOG_LEVEL", "info"),
		NominatimURL:     get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent: get("GEOCODE_USER_AGENT", "tarlatakip/1.0"),
	}
	var err error
	if cfg.AllowCollectionGroup, err = getBool("ALLOW_COLLECTION_GROUP", true); err != nil {
		return AppConfig{}, err
	}
	if cfg.EnableAuthHeader, err = getBool("ENABLE_AUTH_HEADER", false); err != nil {
		return AppConfig{}, err
	}
	if cfg.ResolverParallelism, err = getInt("RESOLVER_PARALLELISM", 8); err != nil {
		return AppConfig{}, err
	}
	if cfg.FlatBatchSize, err = getInt("FLAT_BATCH_SIZE", 200); err != nil {
		return AppConfig{}, err
	}
	if _, err := cfg.Location(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Location is the zone that "local" day bounds and displayed dates use.
func (c AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TZ %q: %w", c.Timezone, err)
	}
	return loc, nil
}
