package main

import (
	"context"
	"os"
	"showing-route-service/internal/adapters/cache"
	"showing-route-service/internal/adapters/repositories"
	"showing-route-service/internal/config"
	"showing-route-service/internal/platform/db"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// dbtool prepares a Postgres database: it creates the schema and optionally
// pre-warms the geocode cache from SEED_PATH.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "dbtool").Logger()

	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	defer conn.Close()

	logger.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(conn); err != nil {
		logger.Fatal().Err(err).Msg("schema initialization failed")
	}
	logger.Info().Msg("schema ready")

	seedPath := config.Get("SEED_PATH", "")
	if seedPath == "" {
		return
	}

	ctx := logger.WithContext(context.Background())
	n, err := cache.SeedGeocodesFromJSON(ctx, cache.NewSQLGeocodeCache(conn), seedPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().Int("addresses", n).Msg("geocode cache seeded")
}
