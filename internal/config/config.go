package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the register service.
type Config struct {
	Port         string   // HTTP listen port
	StoreBackend string   // memory | postgres | mongo
	PostgresURI  string   // connection string, required for postgres backend
	MongoURI     string   // connection string for mongo backend
	MongoDB      string   // mongo database name
	KafkaBrokers []string // empty disables event publishing
	KafkaTopic   string   // topic for transaction events
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "4000"),
		StoreBackend: getEnv("STORE_BACKEND", "memory"),
		PostgresURI:  os.Getenv("POSTGRES_URI"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "register"),
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "transaction_recorded"),
	}

	switch cfg.StoreBackend {
	case "memory", "postgres", "mongo":
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be memory, postgres or mongo, got %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend == "postgres" && cfg.PostgresURI == "" {
		return nil, errors.New("POSTGRES_URI is required for the postgres backend")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
