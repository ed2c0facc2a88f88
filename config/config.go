package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Redis configuration (rate limiting)
	RedisAddr     string
	RedisPassword string

	// HTTP configuration
	Port      string
	JWTSecret string

	// Economy configuration
	CommissionRate      float64 // fraction of bet value frozen per human side
	MinBetAmount        int64   // cents
	MaxBetAmount        int64   // cents
	MaxOpenGamesPerUser int     // unresolved games a human creator may hold

	// Game configuration
	GameTimeout          time.Duration // deadline after join
	TimeoutCheckInterval time.Duration // reaper cadence

	// Bot configuration
	BotTickInterval       time.Duration
	MaxConcurrentBotters  int  // global cap on bots creating bets per tick
	ExposeRegularBotGames bool // whether regular-bot games appear in the public feed

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),

		// Economy defaults
		CommissionRate:      0.03,
		MinBetAmount:        100,     // $1.00
		MaxBetAmount:        1000000, // $10,000.00
		MaxOpenGamesPerUser: 10,

		// Game defaults
		GameTimeout:          60 * time.Second,
		TimeoutCheckInterval: 5 * time.Second,

		// Bot defaults
		BotTickInterval:       5 * time.Second,
		MaxConcurrentBotters:  50,
		ExposeRegularBotGames: true,

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if rate := os.Getenv("COMMISSION_RATE"); rate != "" {
		if parsed, err := strconv.ParseFloat(rate, 64); err == nil && parsed >= 0 && parsed < 1 {
			config.CommissionRate = parsed
		}
	}
	if v := os.Getenv("MIN_BET_AMOUNT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.MinBetAmount = parsed
		}
	}
	if v := os.Getenv("MAX_BET_AMOUNT"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			config.MaxBetAmount = parsed
		}
	}
	if v := os.Getenv("MAX_OPEN_GAMES_PER_USER"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.MaxOpenGamesPerUser = parsed
		}
	}
	if v := os.Getenv("GAME_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.GameTimeout = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("TIMEOUT_CHECK_INTERVAL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.TimeoutCheckInterval = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("BOT_TICK_INTERVAL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.BotTickInterval = time.Duration(parsed) * time.Second
		}
	}
	if v := os.Getenv("MAX_CONCURRENT_BOTTERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			config.MaxConcurrentBotters = parsed
		}
	}
	if v := os.Getenv("EXPOSE_REGULAR_BOT_GAMES"); v != "" {
		config.ExposeRegularBotGames = v == "true"
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
	}
	if config.Port == "" {
		config.Port = "8080"
	}
	if config.RedisAddr == "" {
		config.RedisAddr = "localhost:6379"
	}

	return config, nil
}
