package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the server and seeding settings.
type Config struct {
	AppEnv        string
	Port          string
	SeedOnStartup bool
	SeedOrders    int
	SeedBatchSize int
	CORSOrigins   []string
}

// Load reads .env when present and falls back to the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		Port:          getEnv("APP_PORT", getEnv("PORT", "8080")),
		SeedOnStartup: getBool("SEED_ON_STARTUP", true),
		SeedOrders:    getInt("SEED_ORDERS", 500),
		SeedBatchSize: getInt("SEED_BATCH_SIZE", 100),
		CORSOrigins:   splitList(getEnv("CORS_ORIGINS", "*")),
	}

	log.Printf("Environment: %s", cfg.AppEnv)
	return cfg
}

// Production reports whether gin should run in release mode.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return b
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
