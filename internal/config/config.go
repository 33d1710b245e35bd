package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds gateway configuration.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	UpstreamBaseURL string        `yaml:"upstream_base_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	DatabaseURL     string        `yaml:"database_url"`
	CookieSecret    string        `yaml:"cookie_secret"`
	CookieName      string        `yaml:"cookie_name"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	SweepSchedule   string        `yaml:"sweep_schedule"`
}

// Load resolves configuration from environment variables with an optional
// YAML overlay pointed at by SMARTCOPRO_CONFIG.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:      getenvDefault("LISTEN_ADDR", ":8080"),
		UpstreamBaseURL: os.Getenv("UPSTREAM_BASE_URL"),
		UpstreamTimeout: getenvDuration("UPSTREAM_TIMEOUT", 10*time.Second),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		CookieSecret:    os.Getenv("COOKIE_SECRET"),
		CookieName:      getenvDefault("COOKIE_NAME", "copro_session"),
		SessionTTL:      getenvDuration("SESSION_TTL", 12*time.Hour),
		SweepSchedule:   getenvDefault("SESSION_SWEEP_SCHEDULE", "@every 10m"),
	}

	if path := os.Getenv("SMARTCOPRO_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.UpstreamBaseURL == "" {
		return cfg, errors.New("config: UPSTREAM_BASE_URL is required")
	}
	if cfg.CookieSecret == "" {
		return cfg, errors.New("config: COOKIE_SECRET is required")
	}
	if cfg.SessionTTL <= 0 {
		return cfg, errors.New("config: session ttl must be positive")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
