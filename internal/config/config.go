// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys.
const (
	KeyDatabaseURL      = "DATABASE_URL"
	KeyRedisURL         = "REDIS_URL"
	KeyPort             = "PORT"
	KeyLogLevel         = "LOG_LEVEL"
	KeyElsewhereBaseURL = "ELSEWHERE_BASE_URL"
	KeyHTTPTimeout      = "HTTP_TIMEOUT"
	KeyCacheTTL         = "CACHE_TTL"
	KeyDestinationsSeed = "DESTINATIONS_SEED"
)

// DefaultEnvFiles are read before the environment. Earlier files win because
// godotenv never overrides a variable that is already set.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config is the resolved process configuration.
type Config struct {
	DatabaseURL      string
	RedisURL         string
	Port             string
	LogLevel         string
	ElsewhereBaseURL string
	HTTPTimeout      time.Duration
	CacheTTL         time.Duration
	DestinationsSeed string
}

// Load reads envFiles (DefaultEnvFiles when none are given) and then the
// environment. Missing required keys are reported together in one error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyElsewhereBaseURL, "https://www.elsewhere.io")
	v.SetDefault(KeyHTTPTimeout, "10s")
	v.SetDefault(KeyCacheTTL, "1h")

	var missing []string
	for _, key := range []string{KeyDatabaseURL} {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	timeout, err := duration(v, KeyHTTPTimeout)
	if err != nil {
		return nil, err
	}
	ttl, err := duration(v, KeyCacheTTL)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:      v.GetString(KeyDatabaseURL),
		RedisURL:         v.GetString(KeyRedisURL),
		Port:             v.GetString(KeyPort),
		LogLevel:         strings.ToLower(v.GetString(KeyLogLevel)),
		ElsewhereBaseURL: strings.TrimRight(v.GetString(KeyElsewhereBaseURL), "/"),
		HTTPTimeout:      timeout,
		CacheTTL:         ttl,
		DestinationsSeed: v.GetString(KeyDestinationsSeed),
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, raw)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown %s %q", KeyLogLevel, s)
}

// Level returns the slog level for LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger returns a JSON logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}
