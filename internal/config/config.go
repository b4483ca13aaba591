package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	LogLevel            string
	LogFormat           string
	GoogleClientID      string
	GoogleCertsURL      string
	OpenAIAPIKey        string
	OpenAIModel         string
	OpenAIBaseURL       string
	OpenAIMaxTokens     int
	AnalyzeRateMax      int
	AnalyzeRateWindow   time.Duration
	BodyLimitBytes      int
	StaticRoot          string
	NATSURL             string
	NATSSubject         string
	UpstreamHTTPTimeout time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// The unprefixed variable names used by earlier deployments (PORT, GOOGLE_CLIENT_ID,
// OPENAI_API_KEY, OPENAI_MODEL) are honoured as aliases.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := newViper()

	v.SetDefault("app.name", "AITA API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("google.certs_url", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 0)
	v.SetDefault("analyze.rate_max", 30)
	v.SetDefault("analyze.rate_window", "1m")
	v.SetDefault("body_limit_bytes", 1<<20)
	v.SetDefault("nats.subject", "aita.analysis.completed")
	v.SetDefault("upstream.timeout", "60s")

	_ = v.BindEnv("app.port", "AITA_APP_PORT", "PORT")
	_ = v.BindEnv("google.client_id", "AITA_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("openai.api_key", "AITA_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.model", "AITA_OPENAI_MODEL", "OPENAI_MODEL")

	window, err := parseDuration(v, "analyze.rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid analyze rate window: %w", err)
	}

	upstreamTimeout, err := parseDuration(v, "upstream.timeout", 60*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid upstream timeout: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		LogLevel:            v.GetString("log.level"),
		LogFormat:           v.GetString("log.format"),
		GoogleClientID:      strings.TrimSpace(v.GetString("google.client_id")),
		GoogleCertsURL:      v.GetString("google.certs_url"),
		OpenAIAPIKey:        strings.TrimSpace(v.GetString("openai.api_key")),
		OpenAIModel:         v.GetString("openai.model"),
		OpenAIBaseURL:       v.GetString("openai.base_url"),
		OpenAIMaxTokens:     v.GetInt("openai.max_tokens"),
		AnalyzeRateMax:      v.GetInt("analyze.rate_max"),
		AnalyzeRateWindow:   window,
		BodyLimitBytes:      v.GetInt("body_limit_bytes"),
		StaticRoot:          v.GetString("static_root"),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		UpstreamHTTPTimeout: upstreamTimeout,
	}

	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	if cfg.BodyLimitBytes <= 0 {
		cfg.BodyLimitBytes = 1 << 20
	}

	if cfg.AnalyzeRateMax <= 0 {
		cfg.AnalyzeRateMax = 30
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("AITA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
