package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"gemplay/api"
	"gemplay/config"
	"gemplay/database"
	"gemplay/events"
	"gemplay/repository"
	"gemplay/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting gemplay...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	rng := service.SystemRand()
	commission := service.NewCommissionEngine(cfg.CommissionRate)
	outcome := service.NewOutcomeEngine()

	gameService := service.NewGameService(uowFactory, commission, outcome, rng, service.GameConfig{
		MinBet:                cfg.MinBetAmount,
		MaxBet:                cfg.MaxBetAmount,
		Timeout:               cfg.GameTimeout,
		ExposeRegularBotGames: cfg.ExposeRegularBotGames,
		MaxOpenGames:          cfg.MaxOpenGamesPerUser,
	})
	ledgerService := service.NewLedgerService(uowFactory)
	botAdminService := service.NewBotAdminService(uowFactory)

	// Rate limiting degrades to disabled when redis is not configured.
	var limiter *api.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, rate limiting disabled")
		} else {
			limiter = api.NewRateLimiter(redisClient)
		}
	}

	jwtService := api.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	server := api.NewServer(":"+cfg.Port, jwtService, limiter, gameService, ledgerService, botAdminService)

	reaper := service.NewTimeoutReaper(gameService, cfg.TimeoutCheckInterval)
	go reaper.Run(ctx)

	scheduler := service.NewBotScheduler(gameService, uowFactory, rng, cfg.BotTickInterval, cfg.MaxConcurrentBotters)
	go scheduler.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
