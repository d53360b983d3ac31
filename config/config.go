package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port           string
	HTTPBindAddr   string
	Environment    string
	LoggingConfig  LoggingConfig
	DatasetConfig  DatasetConfig
	PostgresConfig PostgresConfig
	RedisConfig    RedisConfig
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// DatasetConfig controls where the airport dataset is loaded from and the
// defaults applied to proximity queries.
type DatasetConfig struct {
	// Source selects the loader backend: "embedded", "file", "http" or
	// "postgres".
	Source string
	// Path is the CSV file path for the "file" source.
	Path string
	// URL is the CSV location for the "http" source.
	URL string
	// NearbyLimit is the default number of nearby airports returned.
	NearbyLimit int
	// DistanceDecimals is the display precision for formatted distances.
	DistanceDecimals int
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the response-cache Redis configuration. The cache is
// optional: with Enabled false the API serves every query straight from the
// in-memory collection.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "8080")
	httpBindAddr := getEnv("HTTP_BIND_ADDR", "")
	environment := getEnv("ENVIRONMENT", "development")

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	nearbyLimit, _ := strconv.Atoi(getEnv("NEARBY_LIMIT", "4"))
	if nearbyLimit < 1 {
		nearbyLimit = 4
	}
	distanceDecimals, _ := strconv.Atoi(getEnv("DISTANCE_DECIMALS", "2"))
	if distanceDecimals < 0 {
		distanceDecimals = 2
	}

	datasetConfig := DatasetConfig{
		Source:           strings.ToLower(getEnv("DATASET_SOURCE", "embedded")),
		Path:             getEnv("DATASET_PATH", "csv/airports.csv"),
		URL:              getEnv("DATASET_URL", "https://davidmegginson.github.io/ourairports-data/airports.csv"),
		NearbyLimit:      nearbyLimit,
		DistanceDecimals: distanceDecimals,
	}

	postgresConfig := PostgresConfig{
		Host:     getEnv("DB_HOST", "postgres"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "airports"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "airports"),
		SSLMode:  getEnv("DB_SSLMODE", "verify-full"),
	}

	cacheEnabled, _ := strconv.ParseBool(getEnv("CACHE_ENABLED", "false"))
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		cacheTTL = 5 * time.Minute
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	redisConfig := RedisConfig{
		Enabled:  cacheEnabled,
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
		CacheTTL: cacheTTL,
	}

	return &Config{
		Port:           port,
		HTTPBindAddr:   httpBindAddr,
		Environment:    environment,
		LoggingConfig:  loggingConfig,
		DatasetConfig:  datasetConfig,
		PostgresConfig: postgresConfig,
		RedisConfig:    redisConfig,
	}, nil
}

// TestConfig returns a default test configuration
func TestConfig() *Config {
	return &Config{
		Port:        "8080",
		Environment: "test",
		LoggingConfig: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		DatasetConfig: DatasetConfig{
			Source:           "embedded",
			NearbyLimit:      4,
			DistanceDecimals: 2,
		},
		PostgresConfig: PostgresConfig{
			Host:    getEnv("DB_HOST", "localhost"),
			Port:    getEnv("DB_PORT", "5432"),
			User:    getEnv("DB_USER", "airports"),
			DBName:  getEnv("DB_NAME_TEST", "airports_test"),
			SSLMode: getEnv("DB_SSLMODE", "disable"),
		},
		RedisConfig: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			CacheTTL: time.Minute,
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
