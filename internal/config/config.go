package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"clicker_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string
	AppVersion      string
	DevMode         bool
	DatabaseURL     string
	BotToken        string
	BotUsername     string
	WebAppShortName string
	JWTSecret       string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Redis is optional; without it rate limits are kept in memory
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	// Economy
	MiningDuration      time.Duration
	ChannelCheckEnabled bool
	ReferralCacheSize   int

	// Rate limits
	APIRateLimit     int
	APIRateWindow    time.Duration
	ActionRateLimit  int
	ActionRateWindow time.Duration
}

// Load reads .env (if present) and the environment. Invalid config is fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		AppPort:         getString("APP_PORT", "8080"),
		AppVersion:      getString("APP_VERSION", "dev"),
		BotUsername:     getString("BOT_USERNAME", "EdenClickerBot"),
		WebAppShortName: getString("WEBAPP_SHORT_NAME", "app"),
		DevMode:         os.Getenv("DEV_MODE") == "true",

		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		LogLevel: getString("LOG_LEVEL", "info"),
		LogJSON:  os.Getenv("LOG_JSON") == "true",

		MiningDuration:      getDuration("MINING_DURATION", 8*time.Hour),
		ChannelCheckEnabled: os.Getenv("CHANNEL_CHECK_ENABLED") == "true",
		ReferralCacheSize:   getInt("REFERRAL_CACHE_SIZE", 4096),

		APIRateLimit:     getInt("API_RATE_LIMIT", 120), // requests per ip per window
		APIRateWindow:    getDuration("API_RATE_WINDOW", time.Minute),
		ActionRateLimit:  getInt("ACTION_RATE_LIMIT", 60), // actions per user per window
		ActionRateWindow: getDuration("ACTION_RATE_WINDOW", time.Minute),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is not set")
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getInt ignores malformed or non-positive values.
func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// getDuration accepts Go durations ("90s", "8h") or plain seconds.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
