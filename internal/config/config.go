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
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	JWTTTL            time.Duration
	DashboardCacheTTL time.Duration
	SeedEnabled       bool
	SeedToken         string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional
// .env file. Keys are prefixed with CAMPUSKIT, e.g. CAMPUSKIT_JWT_SECRET.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUSKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Institute API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("seed.enabled", false)

	jwtTTL, err := time.ParseDuration(v.GetString("jwt.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cacheTTL, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		JWTTTL:            jwtTTL,
		DashboardCacheTTL: cacheTTL,
		SeedEnabled:       v.GetBool("seed.enabled"),
		SeedToken:         v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
