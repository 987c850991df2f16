package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration (store + posting stream)
	RedisAddr       string
	RedisDB         int
	PostStream      string
	PostStreamMaxLen int

	// Memcache configuration (fetch rate limiting)
	MemcacheAddr string

	// Browser automation endpoint for price validation
	ChromeAddr string

	// Posting schedule
	DailyRunAt        string
	PostsPerDay       int
	HoursBetweenPosts time.Duration
	MinDiscount       int
	SelectionAttempts int

	// Ledger retention
	PostedGamesLimit int

	// Validation concurrency
	BrowserPoolSize     int
	ValidationWorkers   int
	SessionRetries      int
	SessionRetryBackoff time.Duration

	// Reference data
	TopSellersCount int
	SteamRegion     string
	SteamLanguage   string

	// Affiliate feed
	AffiliateFeedPath string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		PostStream:       getEnv("POST_STREAM", "gamedeals:posts"),
		PostStreamMaxLen: getEnvInt("POST_STREAM_MAXLEN", 100),

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		ChromeAddr: getEnv("CHROME_ADDR", "http://localhost:3000"),

		DailyRunAt:        getEnv("DAILY_RUN_AT", "10:00"),
		PostsPerDay:       getEnvInt("POSTS_PER_DAY", 6),
		HoursBetweenPosts: time.Duration(getEnvInt("HOURS_BETWEEN_POSTS", 4)) * time.Hour,
		MinDiscount:       getEnvInt("MIN_DISCOUNT_THRESHOLD", 10),
		SelectionAttempts: getEnvInt("SELECTION_MAX_ATTEMPTS", 100),

		PostedGamesLimit: getEnvInt("POSTED_GAMES_LIMIT", 60),

		BrowserPoolSize:     getEnvInt("BROWSER_POOL_SIZE", 3),
		ValidationWorkers:   getEnvInt("VALIDATION_WORKERS", 3),
		SessionRetries:      getEnvInt("SESSION_RETRY_ATTEMPTS", 10),
		SessionRetryBackoff: time.Duration(getEnvInt("SESSION_RETRY_BACKOFF_MS", 100)) * time.Millisecond,

		TopSellersCount: getEnvInt("STEAM_TOP_SELLERS_COUNT", 500),
		SteamRegion:     getEnv("STEAM_REGION", "US"),
		SteamLanguage:   getEnv("STEAM_LANGUAGE", "en"),

		AffiliateFeedPath: getEnv("AFFILIATE_FEED_PATH", "data/csv/items_info.csv"),

		Environment: getEnv("GAMEDEAL_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.PostsPerDay <= 0 {
		return fmt.Errorf("POSTS_PER_DAY must be positive, got %d", c.PostsPerDay)
	}
	if c.BrowserPoolSize <= 0 {
		return fmt.Errorf("BROWSER_POOL_SIZE must be positive, got %d", c.BrowserPoolSize)
	}
	if c.ValidationWorkers <= 0 {
		return fmt.Errorf("VALIDATION_WORKERS must be positive, got %d", c.ValidationWorkers)
	}
	if c.PostedGamesLimit <= 0 {
		return fmt.Errorf("POSTED_GAMES_LIMIT must be positive, got %d", c.PostedGamesLimit)
	}
	if c.SelectionAttempts <= 0 {
		return fmt.Errorf("SELECTION_MAX_ATTEMPTS must be positive, got %d", c.SelectionAttempts)
	}
	if _, err := time.Parse("15:04", c.DailyRunAt); err != nil {
		return fmt.Errorf("DAILY_RUN_AT must be HH:MM, got %q", c.DailyRunAt)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
