package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	ArchiveEnabled   bool

	Headless        bool
	LoginTimeoutSec int
	LoginPollSec    int
	PageLoadWaitMs  int
	ScrollCount     int
	ScrollPauseMs   int
	MaxConcurrency  int
	RateLimitMs     int
	MaxRetries      int

	ResultsPath   string
	CSVExportPath string
	ChromeBin     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":5000"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "jobs_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		ArchiveEnabled:   getEnvBool("ARCHIVE_ENABLED", false),

		Headless:        getEnvBool("HEADLESS", true),
		LoginTimeoutSec: getEnvInt("LOGIN_TIMEOUT_SEC", 120),
		LoginPollSec:    getEnvInt("LOGIN_POLL_SEC", 5),
		PageLoadWaitMs:  getEnvInt("PAGE_LOAD_WAIT_MS", 3000),
		ScrollCount:     getEnvInt("SCROLL_COUNT", 5),
		ScrollPauseMs:   getEnvInt("SCROLL_PAUSE_MS", 2000),
		MaxConcurrency:  getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:     getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),

		ResultsPath:   getEnv("RESULTS_PATH", "./output/scraped_jobs.json"),
		CSVExportPath: getEnv("CSV_EXPORT_PATH", ""),
		ChromeBin:     getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string for the archive writer.
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

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
