package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the dashboard API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	UpstreamBaseURL  string
	UpstreamTimeout  time.Duration
	RedisURL         string
	JWTSecret        string
	SnapshotCacheTTL time.Duration
	IdentityTimeout  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether the service runs in development mode, which
// relaxes authentication to the user_id query parameter.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FUNDA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Funda Dashboard API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("upstream.timeout", "10s")
	v.SetDefault("snapshot.cache_ttl", "2m")
	v.SetDefault("identity.timeout", "10s")

	upstreamTimeout, err := parseDuration(v.GetString("upstream.timeout"), "upstream timeout")
	if err != nil {
		return Config{}, err
	}

	cacheTTL, err := parseDuration(v.GetString("snapshot.cache_ttl"), "snapshot cache ttl")
	if err != nil {
		return Config{}, err
	}

	identityTimeout, err := parseDuration(v.GetString("identity.timeout"), "identity timeout")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		UpstreamBaseURL:  strings.TrimRight(v.GetString("upstream.base_url"), "/"),
		UpstreamTimeout:  upstreamTimeout,
		RedisURL:         v.GetString("redis.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		SnapshotCacheTTL: cacheTTL,
		IdentityTimeout:  identityTimeout,
	}

	if cfg.UpstreamBaseURL == "" {
		return Config{}, fmt.Errorf("upstream base url must be provided")
	}

	if !cfg.IsDevelopment() && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided outside development")
	}

	return cfg, nil
}

func parseDuration(value, name string) (time.Duration, error) {
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return parsed, nil
}
