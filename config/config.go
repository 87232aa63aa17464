package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"landscout/models"
)

// Source kinds.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Average-per-acre modes.
const (
	AvgModeFold    = "fold"
	AvgModeExclude = "exclude"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SourceKind   string
	SnapshotPath string
	SnapshotDir  string
	SheetName    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string
	PostgresOrderBy  string

	ServerAddr     string
	AllowedOrigins []string

	TopN           int
	AvgPerAcreMode string
	MaxRetries     int
	RetryDelayMs   int
	LogLevel       string

	Headers models.HeaderContract
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SourceKind:   strings.ToLower(getEnv("SOURCE_KIND", SourceFile)),
		SnapshotPath: getEnv("SNAPSHOT_PATH", "./data/listings.xlsx"),
		SnapshotDir:  getEnv("SNAPSHOT_DIR", "./data"),
		SheetName:    getEnv("SHEET_NAME", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "landscout"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "landscout"),
		PostgresDB:       getEnv("POSTGRES_DB", "land_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "listings"),
		PostgresOrderBy:  getEnv("POSTGRES_ORDER_BY", ""),

		ServerAddr:     getEnv("SERVER_ADDR", ":8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		TopN:           getEnvInt("TOP_N", 3),
		AvgPerAcreMode: strings.ToLower(getEnv("AVG_PER_ACRE_MODE", AvgModeFold)),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RetryDelayMs:   getEnvInt("RETRY_DELAY_MS", 1000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		Headers: models.HeaderContract{
			Address:    os.Getenv("HEADER_ADDRESS"),
			City:       os.Getenv("HEADER_CITY"),
			State:      os.Getenv("HEADER_STATE"),
			Price:      os.Getenv("HEADER_PRICE"),
			Acres:      os.Getenv("HEADER_ACRES"),
			Type:       os.Getenv("HEADER_TYPE"),
			Latitude:   os.Getenv("HEADER_LATITUDE"),
			Longitude:  os.Getenv("HEADER_LONGITUDE"),
			DriveMiles: os.Getenv("HEADER_DRIVE_DIST"),
			Score:      os.Getenv("HEADER_SCORE"),
			URL:        os.Getenv("HEADER_URL"),
		}.WithDefaults(),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
