package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"showing-route-service/internal/adapters/cache"
	"showing-route-service/internal/adapters/distance"
	"showing-route-service/internal/adapters/repositories"
	"showing-route-service/internal/api"
	"showing-route-service/internal/api/handlers"
	"showing-route-service/internal/config"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/platform/db"
	"showing-route-service/internal/ports"
	"showing-route-service/internal/services"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisDistanceTTL = 30 * 24 * time.Hour

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, ORS) behind ports and starts the HTTP server.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "showing-route").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Str("level", cfg.LogLevel).Msg("invalid LOG_LEVEL")
	}
	logger = logger.Level(level)

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	// SQLite is initialized on startup for local runs; Postgres goes through cmd/dbtool.
	if cfg.DBDriver == "sqlite" {
		if err := repositories.InitSchema(conn); err != nil {
			return err
		}
	}

	geocodeCache, distanceCache, closeCaches, err := buildCaches(ctx, cfg, conn)
	if err != nil {
		return err
	}
	defer closeCaches()

	if seedPath := config.Get("SEED_PATH", ""); seedPath != "" {
		n, err := cache.SeedGeocodesFromJSON(ctx, geocodeCache, seedPath)
		if err != nil {
			return err
		}
		logger.Info().Int("addresses", n).Str("path", seedPath).Msg("geocode cache seeded")
	}

	provider, err := distance.NewORSProvider(
		cfg.ORSAPIKey,
		distanceCache,
		geocodeCache,
		distance.WithLogger(logger),
		distance.WithCountry(cfg.ORSCountry),
	)
	if err != nil {
		return err
	}

	schedules := buildScheduleStore(ctx, cfg, conn, logger)

	dayStart, err := domain.ParseTimeOfDay(cfg.DefaultDayStart)
	if err != nil {
		return fmt.Errorf("DEFAULT_DAY_START: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Planner:   services.NewPlanner(provider, provider),
		Schedules: schedules,
		Defaults: handlers.RouteDefaults{
			VisitDuration: cfg.DefaultVisitDuration,
			DayStart:      dayStart,
			MaxStops:      cfg.MaxStops,
			PlanTimeout:   cfg.PlanTimeout,
			Location:      cfg.Location,
		},
		PlanRateLimit: cfg.PlanRateLimit,
		CORSOrigins:   cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.PlanTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if cfg.DBDriver == "postgres" {
		return db.Open(cfg.DatabaseURL)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("openDB: create data dir: %w", err)
	}
	return db.OpenSqlite(cfg.DBPath)
}

// buildCaches picks the geocode and distance caches for the configured
// database and distance cache backend.
func buildCaches(
	ctx context.Context,
	cfg config.Config,
	conn *sql.DB,
) (ports.GeocodeCache, ports.DistanceCache, func(), error) {
	var geocodeCache ports.GeocodeCache
	var distanceCache ports.DistanceCache

	if cfg.DBDriver == "postgres" {
		geocodeCache = cache.NewSQLGeocodeCache(conn)
		distanceCache = cache.NewSQLDistanceCache(conn)
	} else {
		geocodeCache = cache.NewSqliteGeocodeCache(conn)
		distanceCache = cache.NewSqliteDistanceCache(conn)
	}

	if cfg.DistanceCache != "redis" {
		return geocodeCache, distanceCache, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}
	return geocodeCache, cache.NewRedisDistanceCache(client, redisDistanceTTL), func() { _ = client.Close() }, nil
}

// buildScheduleStore returns the editing session store. The SQLite store is
// swept for expired sessions in the background until ctx ends.
func buildScheduleStore(
	ctx context.Context,
	cfg config.Config,
	conn *sql.DB,
	logger zerolog.Logger,
) ports.ScheduleRepository {
	if cfg.ScheduleStore != "sqlite" {
		return repositories.NewMemoryScheduleRepository(cfg.ScheduleTTL)
	}

	repo := repositories.NewSqliteScheduleRepository(conn, cfg.ScheduleTTL)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := repo.DeleteExpired(ctx)
				if err != nil {
					logger.Warn().Err(err).Msg("schedule sweep failed")
					continue
				}
				logger.Debug().Int64("deleted", n).Msg("expired schedules swept")
			}
		}
	}()
	return repo
}
