package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gamedealbot/config"
	"gamedealbot/internal/scheduler"
	"gamedealbot/internal/validator"
	"gamedealbot/logger"
	"gamedealbot/services/cache"
	"gamedealbot/services/catalog"
	"gamedealbot/services/poster"
	"gamedealbot/services/store"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("daily_at", cfg.DailyRunAt).
		Int("posts_per_day", cfg.PostsPerDay).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(ctx, cfg)
	defer services.Cleanup()

	sched := scheduler.New(cfg, scheduler.Deps{
		Sources:     []catalog.Source{catalog.NewFeedSource(cfg.AffiliateFeedPath)},
		References:  services.References,
		Store:       services.Store,
		Poster:      services.Poster,
		Sessions:    validator.NewChromeSessionFactory(cfg.ChromeAddr),
		Extractors:  validator.DefaultExtractors(),
		Maintenance: maintenance{},
	})

	// Start scheduler in a goroutine
	schedDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting game deal scheduler")
		schedDone <- sched.Run(ctx)
	}()

	// Wait for shutdown signal or scheduler error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-schedDone
	case err := <-schedDone:
		if err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Scheduler exited with error")
		} else {
			log.Info().Msg("Scheduler exited normally")
		}
	}

	log.Info().Msg("Shutting down gracefully...")
}

// maintenance is the monthly job. Nothing to do yet; the slot exists so
// housekeeping (ledger compaction, feed refresh) can be added without
// touching the scheduler.
type maintenance struct{}

func (maintenance) Run(_ context.Context) error {
	logger.Info("Monthly maintenance: nothing to do")
	return nil
}

// Services holds all the initialized services
type Services struct {
	Store      store.Store
	Poster     poster.Poster
	References catalog.ReferenceSource
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Poster != nil {
		s.Poster.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) *Services {
	services := &Services{}

	// Cache backs fetch rate limiting for the reference source
	cacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
	logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)

	services.References = catalog.NewSteamTopSellers(
		cache.NewRateGuard(cacheService),
		cfg.TopSellersCount,
		cfg.SteamRegion,
		cfg.SteamLanguage,
	)

	services.Store = store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.PostedGamesLimit)
	services.Poster = poster.NewStreamPoster(cfg.RedisAddr, cfg.RedisDB, cfg.PostStream, cfg.PostStreamMaxLen)

	logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
		cfg.RedisAddr, cfg.RedisDB, cfg.PostStream)

	return services
}
