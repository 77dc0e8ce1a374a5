package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Snapshot source
	Source SourceConfig

	// Ranking defaults
	Ranking RankingConfig

	// Session state
	Redis   RedisConfig
	Session SessionConfig

	// Source probe
	Monitor MonitorConfig

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// SourceConfig describes where the OI snapshot CSV lives
type SourceConfig struct {
	URL       string
	Timeout   time.Duration
	RateLimit float64 // fetches per second, 0 = unlimited
	RateBurst int
}

// RankingConfig holds the default ranking parameters
type RankingConfig struct {
	Mode        string
	Threshold   float64 // increase_ratio gate
	TopN        int     // 0 = unlimited
	PageSize    int
	ProfilePath string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// MonitorConfig controls the periodic source probe
type MonitorConfig struct {
	Enabled  bool
	Schedule string
}

// Timeout bounds for a single snapshot fetch
const (
	MinSourceTimeout = 1 * time.Second
	MaxSourceTimeout = 30 * time.Second
)

var validModes = map[string]bool{
	"percent_gate": true,
	"full_market":  true,
	"gated_value":  true,
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8501"),
		Env:  getEnv("ENV", "development"),

		Source: SourceConfig{
			URL:       getEnv("SOURCE_URL", ""),
			Timeout:   getEnvAsDuration("SOURCE_TIMEOUT", "5s"),
			RateLimit: getEnvAsFloat("SOURCE_RATE_LIMIT", 2),
			RateBurst: getEnvAsInt("SOURCE_RATE_BURST", 4),
		},

		Ranking: RankingConfig{
			Mode:        getEnv("RANK_MODE", "percent_gate"),
			Threshold:   getEnvAsFloat("RANK_THRESHOLD", 0.03),
			TopN:        getEnvAsInt("RANK_TOP_N", 100),
			PageSize:    getEnvAsInt("PAGE_SIZE", 20),
			ProfilePath: getEnv("PROFILE_PATH", ""),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "oiwatch_session"),
			TTL:        getEnvAsDuration("SESSION_TTL", "12h"),
		},

		Monitor: MonitorConfig{
			Enabled:  getEnvAsBool("MONITOR_ENABLED", true),
			Schedule: getEnv("MONITOR_SCHEDULE", "@every 1m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("SOURCE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Source.Timeout < MinSourceTimeout || c.Source.Timeout > MaxSourceTimeout {
		return fmt.Errorf("SOURCE_TIMEOUT must be between %s and %s", MinSourceTimeout, MaxSourceTimeout)
	}

	if c.Source.RateLimit < 0 {
		return fmt.Errorf("SOURCE_RATE_LIMIT must be >= 0")
	}

	if !validModes[c.Ranking.Mode] {
		return fmt.Errorf("RANK_MODE must be one of: percent_gate, full_market, gated_value")
	}

	if c.Ranking.Threshold < 0 {
		return fmt.Errorf("RANK_THRESHOLD must be >= 0")
	}

	if c.Ranking.TopN < 0 {
		return fmt.Errorf("RANK_TOP_N must be >= 0")
	}

	if c.Ranking.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be >= 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
