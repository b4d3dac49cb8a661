// Package config loads service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// GitHubToken is the service credential used for admin searches and the
	// one-shot CLI; per-user dashboards use each user's stored token.
	GitHubToken string

	// EventOrg/EventRepo identify the coding event's home repository.
	EventOrg  string
	EventRepo string

	// EventTag is the free-text marker that event pull requests carry.
	EventTag string

	// DetailConcurrency bounds parallel detail fetches per aggregation.
	DetailConcurrency int

	// RequestsPerSecond sizes the process-wide outbound token bucket.
	RequestsPerSecond int
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "soc_insights"),
		GitHubToken:       getEnv("GITHUB_TOKEN", ""),
		EventOrg:          getEnv("EVENT_ORG", "ieee-cs-bmsit"),
		EventRepo:         getEnv("EVENT_REPO", "ISoC2025"),
		EventTag:          getEnv("EVENT_TAG", "#ieeesoc"),
		DetailConcurrency: getEnvInt("DETAIL_CONCURRENCY", 5),
		RequestsPerSecond: getEnvInt("REQUESTS_PER_SECOND", 10),
	}, err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
