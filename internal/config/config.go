package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/river-quality-service/internal/domain"
)

// Config holds all service settings, populated from environment variables.
// It is read once at startup and treated as immutable thereafter.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RiversFile string
	CacheTTL   time.Duration

	// Upstream catalog configuration.
	CatalogBaseURL      string
	CatalogAPIKey       string
	CatalogTimeout      time.Duration
	CatalogLimit        int
	FallbackResourceIDs []string

	// RWQI weights, thresholds, and advisory freshness bound.
	Index domain.IndexConfig

	// Result event publishing (optional; enabled when brokers are set).
	KafkaBrokers     []string
	KafkaEventsTopic string
}

// EventsEnabled reports whether result events should be published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables (optionally a .env
// file), applying defaults where unset. Malformed JSON values are rejected
// here rather than surfacing as broken behavior later.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	catalogTimeout, err := parseDurationEnv("CATALOG_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cacheTTLSeconds, err := parseIntEnv("CACHE_TTL_SECONDS", 600, 1, 86400*7)
	if err != nil {
		return nil, err
	}

	catalogLimit, err := parseIntEnv("CATALOG_LIMIT", 100, 1, 1000)
	if err != nil {
		return nil, err
	}

	fallbackIDs, err := parseFallbackResourceIDs()
	if err != nil {
		return nil, err
	}

	index := domain.DefaultIndexConfig()
	if raw := os.Getenv("RWQI_CONFIG"); raw != "" {
		if err := index.ApplyOverride([]byte(raw)); err != nil {
			return nil, fmt.Errorf("RWQI_CONFIG: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RiversFile: envOrDefault("RIVERS_FILE", "data/rivers.json"),
		CacheTTL:   time.Duration(cacheTTLSeconds) * time.Second,

		CatalogBaseURL:      os.Getenv("CATALOG_BASE_URL"),
		CatalogAPIKey:       os.Getenv("CATALOG_API_KEY"),
		CatalogTimeout:      catalogTimeout,
		CatalogLimit:        catalogLimit,
		FallbackResourceIDs: fallbackIDs,

		Index: index,

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic: envOrDefault("KAFKA_EVENTS_TOPIC", "rwqi-lookups"),
	}

	if cfg.CatalogBaseURL == "" {
		return nil, errors.New("CATALOG_BASE_URL is required")
	}
	if !strings.HasPrefix(cfg.CatalogBaseURL, "http://") && !strings.HasPrefix(cfg.CatalogBaseURL, "https://") {
		return nil, fmt.Errorf("CATALOG_BASE_URL must be an http(s) URL, got %q", cfg.CatalogBaseURL)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseIntEnv(key string, fallback, minimum, maximum int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < minimum || n > maximum {
		return 0, fmt.Errorf("invalid %s: %q (must be %d..%d)", key, s, minimum, maximum)
	}
	return n, nil
}

func parseFallbackResourceIDs() ([]string, error) {
	raw := os.Getenv("FALLBACK_RESOURCE_IDS")
	if raw == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("FALLBACK_RESOURCE_IDS must be a JSON string array: %w", err)
	}
	return ids, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
