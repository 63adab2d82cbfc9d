package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Zone store behavior
	StoreTimeout    time.Duration // per-lookup budget before degrading to the paid catalog
	ZoneSnapshotTTL time.Duration // in-memory polygon index refresh interval
	FreeDateTTL     time.Duration // per-zone free-date cache TTL
	// Carrier catalog
	CarrierCatalogFile string
	// Free-date cleanup job
	CleanupSchedule string
}

func LoadConfig() *Config {
	// A specific config file can be requested via env var; otherwise try
	// .env for local dev. In docker/prod envs neither may exist and system
	// env vars are the source of truth.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// A slow zone lookup must never hold up checkout, so the budget
		// stays well under the request timeout.
		StoreTimeout:    getDurationEnv("ZONE_STORE_TIMEOUT", 2*time.Second),
		ZoneSnapshotTTL: getDurationEnv("ZONE_SNAPSHOT_TTL", 5*time.Minute),
		FreeDateTTL:     getDurationEnv("FREE_DATE_CACHE_TTL", time.Minute),

		CarrierCatalogFile: getEnv("CARRIER_CATALOG_FILE", ""),

		// 02:00 daily, off-peak
		CleanupSchedule: getEnv("FREE_DATE_CLEANUP_SCHEDULE", "0 2 * * *"),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
}
