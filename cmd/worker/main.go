package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	ticketingUsecases "github.com/nrjbutsecond/tessera/internal/application/ticketing/usecases"
	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/cache"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/config"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/database"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/pubsub"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/repository"
	"github.com/nrjbutsecond/tessera/internal/infrastructure/scheduler"
	"github.com/nrjbutsecond/tessera/internal/shared/db"
	"github.com/nrjbutsecond/tessera/internal/shared/logger"
)

// The expiry worker runs separately from the HTTP server so that slow
// sweeps never compete with request handling. Multiple replicas coordinate
// through a redis lock; only one sweeps per interval.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger()
	log.Infow("starting ticket expiry worker", "environment", env)

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalw("failed to connect to redis", "error", err)
	}
	log.Infow("redis connection established", "address", cfg.Redis.GetAddr())

	ticketRepo := repository.NewTicketRepository(database.Get())
	classRepo := repository.NewTicketClassRepository(database.Get())
	txManager := db.NewTransactionManager(database.Get())
	availability := cache.NewAvailabilityCache(redisClient)
	publisher := pubsub.NewRedisPublisher(redisClient)
	clock := ticketing.NewSystemClock()

	sweepInterval := cfg.Ticketing.SweepInterval()

	sweepUC := ticketingUsecases.NewSweepExpiredUseCase(
		ticketRepo,
		classRepo,
		txManager,
		availability,
		publisher,
		clock,
		cfg.Ticketing.HoldTTL(),
		log,
	)

	// Lock lease outlives one interval so a stuck sweeper cannot be joined
	// by a second replica mid-pass.
	sweepLock := cache.NewSweepLock(redisClient, 2*sweepInterval)

	owner, err := os.Hostname()
	if err != nil || owner == "" {
		owner = fmt.Sprintf("worker-%d", os.Getpid())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryScheduler := scheduler.NewExpiryScheduler(sweepUC, sweepLock, owner, sweepInterval, log)
	expiryScheduler.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	expiryScheduler.Stop()
	log.Infow("ticket expiry worker stopped")
}
