package config

import (
	"os"
	"strconv"
	"time"

	"opcgsearch/cardscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Target site
	BaseURL    string
	SearchPath string

	// Cache documents
	DataFile string
	SetsFile string

	// Extraction tuning
	PriceFloor       int
	EnforceSetPrefix bool

	// Detail-page batching
	BatchSize     int
	VersBatchSize int
	RequestDelay  time.Duration
	BatchDelay    time.Duration
	TermDelayBase time.Duration
	TermDelayJit  time.Duration

	// HTTP
	RequestTimeout time.Duration
	ServerAddr     string

	// Memcache cooldown bookkeeping (optional, empty disables)
	MemcacheAddr  string
	BlockCooldown time.Duration

	// Redis scrape-event publishing (optional, empty disables)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	priceFloor, _ := strconv.Atoi(getEnv("PRICE_FLOOR", "10"))
	batchSize, _ := strconv.Atoi(getEnv("BATCH_SIZE", "15"))
	versBatchSize, _ := strconv.Atoi(getEnv("VERS_BATCH_SIZE", "10"))
	requestDelayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "200"))
	batchDelayMs, _ := strconv.Atoi(getEnv("BATCH_DELAY_MS", "1000"))
	termDelayS, _ := strconv.Atoi(getEnv("TERM_DELAY_SECONDS", "5"))
	termJitterS, _ := strconv.Atoi(getEnv("TERM_DELAY_JITTER_SECONDS", "3"))
	requestTimeoutS, _ := strconv.Atoi(getEnv("REQUEST_TIMEOUT_SECONDS", "30"))
	blockCooldownS, _ := strconv.Atoi(getEnv("BLOCK_COOLDOWN_SECONDS", "1800"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMax, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	return Config{
		BaseURL:              getEnv("BASE_URL", "https://yuyu-tei.jp"),
		SearchPath:           getEnv("SEARCH_PATH", "/sell/opc/s/search"),
		DataFile:             getEnv("SCRAPED_DATA_FILE", "data/scraped-data.json"),
		SetsFile:             getEnv("SETS_DATA_FILE", "data/sets-data.json"),
		PriceFloor:           priceFloor,
		EnforceSetPrefix:     getEnv("ENFORCE_SET_PREFIX", "true") == "true",
		BatchSize:            batchSize,
		VersBatchSize:        versBatchSize,
		RequestDelay:         time.Duration(requestDelayMs) * time.Millisecond,
		BatchDelay:           time.Duration(batchDelayMs) * time.Millisecond,
		TermDelayBase:        time.Duration(termDelayS) * time.Second,
		TermDelayJit:         time.Duration(termJitterS) * time.Second,
		RequestTimeout:       time.Duration(requestTimeoutS) * time.Second,
		ServerAddr:           getEnv("SERVER_ADDR", ":3001"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		BlockCooldown:        time.Duration(blockCooldownS) * time.Second,
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "cardscrapes"),
		RedisStreamMaxLength: redisStreamMax,
		Environment:          getEnv("CARDSCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.NewConfiguration("BASE_URL must not be empty", nil)
	}
	if c.DataFile == "" {
		return errors.NewConfiguration("SCRAPED_DATA_FILE must not be empty", nil)
	}
	if c.PriceFloor < 0 {
		return errors.NewConfiguration("PRICE_FLOOR must not be negative", nil)
	}
	if c.BatchSize <= 0 || c.VersBatchSize <= 0 {
		return errors.NewConfiguration("batch sizes must be positive", nil)
	}
	if c.RequestTimeout <= 0 {
		return errors.NewConfiguration("REQUEST_TIMEOUT_SECONDS must be positive", nil)
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
