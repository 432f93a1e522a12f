// Package config loads service settings from the environment, after
// merging an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type Config struct {
	Port     string
	LogLevel string

	StoreBackend string
	DatabaseURL  string

	MetricsToken     string
	WriteLimit       int
	WriteLimitWindow time.Duration

	CatalogURL string
	CartDir    string
}

// Load reads .env (if present, without overriding the real environment)
// and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:     getEnv("PORT", "8082"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StoreBackend: getEnv("STORE_BACKEND", BackendMemory),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		MetricsToken:     getEnv("METRICS_TOKEN", ""),
		WriteLimit:       getEnvInt("WRITE_LIMIT_PER_MIN", 30),
		WriteLimitWindow: time.Minute,

		CatalogURL: getEnv("CATALOG_URL", "http://localhost:8082"),
		CartDir:    getEnv("CART_DIR", defaultCartDir()),
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=%s", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func defaultCartDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/palaniappa"
	}
	return ".palaniappa"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
