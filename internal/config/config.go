// README: Config loader with env defaults for HTTP, storage, cache, auth, AI and simulation settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP struct {
		Addr          string
		MaxConcurrent int
	}
	DB struct {
		// DSN selects PostgreSQL; when empty runs are kept in SQLite.
		DSN        string
		SQLitePath string
	}
	Redis struct {
		Addr     string
		CacheTTL time.Duration
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	Auth struct {
		JWTSecret string
	}
	AI struct {
		GeminiKey string
		// InsightQuota is the monthly insight allowance per caller; 0 disables metering.
		InsightQuota int
	}
	Simulation struct {
		SortInput bool
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("RIDEPOOL_HTTP_ADDR", ":8080")
	cfg.HTTP.MaxConcurrent = envOrDefaultInt("RIDEPOOL_MAX_CONCURRENT", 8)
	cfg.DB.DSN = os.Getenv("RIDEPOOL_DB_DSN")
	cfg.DB.SQLitePath = envOrDefault("RIDEPOOL_SQLITE_PATH", "ridepool.db")
	cfg.Redis.Addr = os.Getenv("RIDEPOOL_REDIS_ADDR")
	cfg.Redis.CacheTTL = envOrDefaultDuration("RIDEPOOL_CACHE_TTL", 24*time.Hour)
	cfg.Firebase.ProjectID = os.Getenv("RIDEPOOL_FIREBASE_PROJECT_ID")
	cfg.Firebase.CredentialsFile = os.Getenv("RIDEPOOL_FIREBASE_CREDENTIALS")
	cfg.Auth.JWTSecret = os.Getenv("RIDEPOOL_JWT_SECRET")
	cfg.AI.GeminiKey = os.Getenv("GEMINI_API_KEY")
	cfg.AI.InsightQuota = envOrDefaultInt("RIDEPOOL_INSIGHT_QUOTA", 100)
	cfg.Simulation.SortInput = EnvOrDefaultBool("RIDEPOOL_SORT_INPUT", false)

	if cfg.HTTP.MaxConcurrent <= 0 {
		return cfg, fmt.Errorf("RIDEPOOL_MAX_CONCURRENT must be positive")
	}
	if cfg.Redis.CacheTTL <= 0 {
		return cfg, fmt.Errorf("RIDEPOOL_CACHE_TTL must be positive")
	}
	if cfg.AI.InsightQuota < 0 {
		return cfg, fmt.Errorf("RIDEPOOL_INSIGHT_QUOTA must not be negative")
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// EnvOrDefaultBool accepts 1/true/yes in any case.
func EnvOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
