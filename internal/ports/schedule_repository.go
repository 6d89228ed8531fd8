package ports

import (
	"context"
	"errors"
	"showing-route-service/internal/domain"
)

var ErrScheduleNotFound = errors.New("schedule not found")

// Port: storage for live schedule editing sessions.
type ScheduleRepository interface {
	// Store a new schedule and return its id.
	Create(ctx context.Context, s *domain.Schedule) (string, error)
	// Return a copy of the stored schedule.
	Get(ctx context.Context, id string) (*domain.Schedule, error)
	// Apply fn to the stored schedule and persist its result. Edits to the
	// same id are serialized. If fn fails nothing is written.
	Update(ctx context.Context, id string, fn func(*domain.Schedule) (*domain.Schedule, error)) (*domain.Schedule, error)
}
