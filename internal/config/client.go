package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store drivers understood by the client.
const (
	StoreDriverBolt     = "bolt"
	StoreDriverRedis    = "redis"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// ClientConfig configures the teacher-facing CLI.
type ClientConfig struct {
	APIBaseURL  string
	StoreDriver string
	StorePath   string
	RedisURL    string
	DatabaseURL string
	Profile     string
	MockDelay   time.Duration
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string
}

// LoadClient resolves client configuration from flags, AITA_* environment
// variables and an optional .env file, in that order of precedence.
func LoadClient(flags *pflag.FlagSet) (ClientConfig, error) {
	_ = godotenv.Load()

	v := newViper()

	v.SetDefault("api_url", "http://localhost:8080")
	v.SetDefault("store.driver", StoreDriverBolt)
	v.SetDefault("store.path", defaultStorePath())
	v.SetDefault("profile", "default")
	v.SetDefault("mock_delay", "800ms")
	v.SetDefault("http_timeout", "0s")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "pretty")

	if flags != nil {
		bindings := map[string]string{
			"api_url":      "api-url",
			"store.driver": "store",
			"store.path":   "store-path",
			"profile":      "profile",
			"log.level":    "log-level",
		}
		for key, name := range bindings {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return ClientConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	mockDelay, err := parseDuration(v, "mock_delay", 800*time.Millisecond)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("invalid mock delay: %w", err)
	}

	httpTimeout, err := parseDuration(v, "http_timeout", 0)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("invalid http timeout: %w", err)
	}

	cfg := ClientConfig{
		APIBaseURL:  strings.TrimRight(v.GetString("api_url"), "/"),
		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		StorePath:   v.GetString("store.path"),
		RedisURL:    v.GetString("redis.url"),
		DatabaseURL: v.GetString("database.url"),
		Profile:     v.GetString("profile"),
		MockDelay:   mockDelay,
		HTTPTimeout: httpTimeout,
		LogLevel:    v.GetString("log.level"),
		LogFormat:   v.GetString("log.format"),
	}

	switch cfg.StoreDriver {
	case StoreDriverBolt, StoreDriverRedis, StoreDriverSQLite, StoreDriverPostgres, StoreDriverMemory:
	default:
		return ClientConfig{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.Profile == "" {
		cfg.Profile = "default"
	}

	return cfg, nil
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".aita", "state.db")
	}
	return filepath.Join(home, ".aita", "state.db")
}
