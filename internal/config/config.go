package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	DefaultOwnerID int64

	// RentDueDay is the day of the month rent falls due.
	RentDueDay int

	// DashboardMonths is the trailing window length for dashboard series.
	DashboardMonths int

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MeterIngestRate     float64
	MeterIngestBurst    int
	MeterLockTTLSeconds int
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:         getenv("APP_SERVICE", "pgdesk"),
		AppVersion:      getenv("APP_VERSION", "0.1.0"),
		Environment:     getenv("ENVIRONMENT", "development"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		DefaultOwnerID:  getenvInt64("DEFAULT_OWNER", 0),
		RentDueDay:      getenvInt("RENT_DUE_DAY", 5),
		DashboardMonths: getenvInt("DASHBOARD_MONTHS", 6),
		OTLPEndpoint:    getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:          getenv("DATABASE_TYPE", "postgres"),
		DBHost:          getenv("DATABASE_HOST", "localhost"),
		DBPort:          getenv("DATABASE_PORT", "5432"),
		DBName:          getenv("DATABASE_NAME", "pgdesk"),
		DBUser:          getenv("DATABASE_USER", "postgres"),
		DBPassword:      getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:       getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:   getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:   getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		RedisDB:         getenvInt("REDIS_DB", 0),

		MeterIngestRate:     getenvFloat("METER_INGEST_RATE", 5),
		MeterIngestBurst:    getenvInt("METER_INGEST_BURST", 10),
		MeterLockTTLSeconds: getenvInt("METER_LOCK_TTL_SECONDS", 5),
	}

	if cfg.RentDueDay < 1 || cfg.RentDueDay > 28 {
		cfg.RentDueDay = 5
	}
	if cfg.DashboardMonths <= 0 {
		cfg.DashboardMonths = 6
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}
