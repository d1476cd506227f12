package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        int
	StoreDriver string

	MongoURL string
	DBName   string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string

	RedisHost string
	RedisPort int

	JWTSecret    string
	TokenTTL     time.Duration
	CORSOrigins  string
	RateLimitMax int
	DocumentKey  string
	LogDir       string
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		Port:         intEnv("PORT", 8001),
		StoreDriver:  strings.ToLower(stringEnv("STORE_DRIVER", DriverMongo)),
		MongoURL:     stringEnv("MONGO_URL", "mongodb://localhost:27017"),
		DBName:       stringEnv("DB_NAME", "workforce_portal"),
		DBHost:       stringEnv("DB_HOST", "localhost"),
		DBPort:       intEnv("DB_PORT", 5432),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		RedisHost:    os.Getenv("REDIS_HOST"),
		RedisPort:    intEnv("REDIS_PORT", 6379),
		JWTSecret:    stringEnv("JWT_SECRET", "workforce-secret-key-2024"),
		TokenTTL:     durationEnv("TOKEN_TTL", 24*time.Hour),
		CORSOrigins:  stringEnv("CORS_ORIGINS", "*"),
		RateLimitMax: intEnv("RATE_LIMIT_MAX", 100),
		DocumentKey:  os.Getenv("DOCUMENT_KEY"),
		LogDir:       stringEnv("LOG_DIR", "logs"),
	}
}

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
