package api

import (
	"net/http"
	"showing-route-service/internal/api/handlers"
	"showing-route-service/internal/ports"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Logger    zerolog.Logger
	Planner   handlers.RoutePlanner
	Schedules ports.ScheduleRepository
	Defaults  handlers.RouteDefaults

	// Planning requests allowed per client IP per minute; 0 disables the limit.
	PlanRateLimit int
	CORSOrigins   []string
	Now           func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) http.Handler {
	routeHandler := &handlers.RouteHandler{
		Planner:   cfg.Planner,
		Schedules: cfg.Schedules,
		Defaults:  cfg.Defaults,
		Now:       cfg.Now,
	}
	scheduleHandler := &handlers.ScheduleHandler{
		Schedules: cfg.Schedules,
		Now:       cfg.Now,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(cfg.Logger))
	r.Use(recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}).Handler)

	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		if cfg.PlanRateLimit > 0 {
			r.Use(httprate.Limit(
				cfg.PlanRateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
			))
		}
		r.Post("/routes", routeHandler.Plan)
	})

	r.Route("/schedules/{id}", func(r chi.Router) {
		r.Get("/", scheduleHandler.Get)
		r.Get("/itinerary", scheduleHandler.Itinerary)
		r.Put("/stops/{position}/time", scheduleHandler.EditTime)
		r.Put("/stops/{position}/duration", scheduleHandler.EditDuration)
		r.Post("/stops/{position}/freeze", scheduleHandler.ToggleFreeze)
	})

	return r
}
