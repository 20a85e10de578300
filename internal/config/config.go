package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RedisURL string

	JWTSecret         string
	AccessTokenMaxAge int // seconds

	// SourceLatency is the artificial delay applied by the fixture-backed
	// remote source to simulate network round trips.
	SourceLatency time.Duration

	// SeedValue drives deterministic fixture generation.
	SeedValue int64

	// PostgresDSN is only used when the postgres-backed source is selected.
	PostgresDSN string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 900
	}

	latencyMs, err := strconv.Atoi(os.Getenv("SOURCE_LATENCY_MS"))
	if err != nil || latencyMs < 0 {
		latencyMs = 500
	}

	seedValue, err := strconv.ParseInt(os.Getenv("SEED"), 10, 64)
	if err != nil {
		seedValue = 1
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-do-not-use-in-production"
	}

	return &Config{
		RedisURL: redisURL,

		JWTSecret:         jwtSecret,
		AccessTokenMaxAge: accessTokenMaxAge,

		SourceLatency: time.Duration(latencyMs) * time.Millisecond,
		SeedValue:     seedValue,

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}, nil
}
