package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the service settings, read from the environment.
type Config struct {
	Port string

	// DBDriver selects the cache database: "sqlite" or "postgres".
	DBDriver    string
	DBPath      string
	DatabaseURL string

	ORSAPIKey string
	// ORSCountry restricts geocoding to one ISO country code; empty searches everywhere.
	ORSCountry string

	// DistanceCache selects the distance cache backend: "sql" or "redis".
	DistanceCache string
	RedisAddr     string

	// ScheduleStore selects where editing sessions live: "memory" or "sqlite".
	ScheduleStore string
	ScheduleTTL   time.Duration

	DefaultVisitDuration int
	DefaultDayStart      string
	Location             *time.Location
	MaxStops             int
	PlanTimeout          time.Duration
	PlanRateLimit        int
	CORSOrigins          []string
	LogLevel             string
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads the configuration. Call godotenv.Load first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:            Get("PORT", "8080"),
		DBDriver:        strings.ToLower(Get("DB_DRIVER", "sqlite")),
		DBPath:          Get("DB_PATH", "data/app.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ORSAPIKey:       os.Getenv("ORS_API_KEY"),
		ORSCountry:      Get("ORS_COUNTRY", "US"),
		DistanceCache:   strings.ToLower(Get("DISTANCE_CACHE", "sql")),
		RedisAddr:       Get("REDIS_ADDR", "localhost:6379"),
		ScheduleStore:   strings.ToLower(Get("SCHEDULE_STORE", "memory")),
		DefaultDayStart: Get("DEFAULT_DAY_START", "09:00"),
		LogLevel:        Get("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.DefaultVisitDuration, err = getInt("DEFAULT_VISIT_DURATION", 30); err != nil {
		return Config{}, err
	}
	if cfg.MaxStops, err = getInt("MAX_STOPS", 25); err != nil {
		return Config{}, err
	}
	if cfg.PlanRateLimit, err = getInt("PLAN_RATE_LIMIT", 30); err != nil {
		return Config{}, err
	}
	if cfg.ScheduleTTL, err = getDuration("SCHEDULE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PlanTimeout, err = getDuration("PLAN_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, err
	}

	cfg.Location, err = time.LoadLocation(Get("TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("config: TIMEZONE: %w", err)
	}

	for _, o := range strings.Split(Get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: DATABASE_URL is required when DB_DRIVER=postgres")
	}

	switch c.DistanceCache {
	case "sql", "redis":
	default:
		return fmt.Errorf("config: DISTANCE_CACHE must be sql or redis, got %q", c.DistanceCache)
	}

	switch c.ScheduleStore {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: SCHEDULE_STORE must be memory or sqlite, got %q", c.ScheduleStore)
	}
	if c.ScheduleStore == "sqlite" && c.DBDriver != "sqlite" {
		return fmt.Errorf("config: SCHEDULE_STORE=sqlite requires DB_DRIVER=sqlite")
	}

	if c.DefaultVisitDuration < 5 || c.DefaultVisitDuration > 120 {
		return fmt.Errorf("config: DEFAULT_VISIT_DURATION must be between 5 and 120")
	}
	if c.MaxStops < 1 {
		return fmt.Errorf("config: MAX_STOPS must be positive")
	}
	return nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
