package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	SessionSecret      string
	DatabaseURL        string
	Env                string

	// Cache tuning. Summaries and bodies have independent TTLs, and demo
	// users get longer ones: their data has no freshness requirement.
	CacheMaxEntries int
	SummaryTTL      time.Duration
	SummaryTTLDemo  time.Duration
	BodyTTL         time.Duration
	BodyTTLDemo     time.Duration

	// Upstream fetch tuning.
	FetchTimeout  time.Duration
	FetchMinChunk int
	FetchMaxChunk int

	// Demo inbox shape.
	MockMessageCount int
	MockFetchDelay   time.Duration
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:               GetEnv("PORT", "8080"),
		BaseURL:            GetEnv("BASE_URL", "http://localhost:8080"),
		GoogleClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
		SessionSecret:      GetEnv("SESSION_SECRET", "c6a13428-5f09-4bcd-9a6e-9e2e68f25b4a"),
		DatabaseURL:        GetEnv("DATABASE_URL", ""),
		Env:                GetEnv("ENV", "development"),

		CacheMaxEntries: GetEnvInt("CACHE_MAX_ENTRIES", 100),
		SummaryTTL:      GetEnvDuration("SUMMARY_TTL", 60*time.Second),
		SummaryTTLDemo:  GetEnvDuration("SUMMARY_TTL_DEMO", 10*time.Minute),
		BodyTTL:         GetEnvDuration("BODY_TTL", 5*time.Minute),
		BodyTTLDemo:     GetEnvDuration("BODY_TTL_DEMO", 30*time.Minute),

		FetchTimeout:  GetEnvDuration("FETCH_TIMEOUT", 8*time.Second),
		FetchMinChunk: GetEnvInt("FETCH_MIN_CHUNK", 5),
		FetchMaxChunk: GetEnvInt("FETCH_MAX_CHUNK", 15),

		MockMessageCount: GetEnvInt("MOCK_MESSAGE_COUNT", 40),
		MockFetchDelay:   GetEnvDuration("MOCK_FETCH_DELAY", 150*time.Millisecond),
	}, nil
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	// Google credentials are optional: without them only the demo flow is
	// available. Both halves must be present together.
	if (c.GoogleClientID == "") != (c.GoogleClientSecret == "") {
		return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together")
	}
	if c.FetchMinChunk < 1 || c.FetchMaxChunk < c.FetchMinChunk {
		return fmt.Errorf("invalid chunk bounds: min=%d max=%d", c.FetchMinChunk, c.FetchMaxChunk)
	}
	return nil
}

// GoogleEnabled reports whether real-user OAuth sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
