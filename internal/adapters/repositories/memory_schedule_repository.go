package repositories

import (
	"context"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryScheduleRepository keeps editing sessions in process memory.
// Entries expire ttl after their last write; callers always receive copies.
type MemoryScheduleRepository struct {
	mu    sync.Mutex
	items *gocache.Cache
}

func NewMemoryScheduleRepository(ttl time.Duration) *MemoryScheduleRepository {
	return &MemoryScheduleRepository{items: gocache.New(ttl, 2*ttl)}
}

func (r *MemoryScheduleRepository) Create(_ context.Context, s *domain.Schedule) (string, error) {
	id := uuid.NewString()
	r.items.SetDefault(id, s.Clone())
	return id, nil
}

func (r *MemoryScheduleRepository) Get(_ context.Context, id string) (*domain.Schedule, error) {
	v, ok := r.items.Get(id)
	if !ok {
		return nil, ports.ErrScheduleNotFound
	}
	return v.(*domain.Schedule).Clone(), nil
}

func (r *MemoryScheduleRepository) Update(
	_ context.Context,
	id string,
	fn func(*domain.Schedule) (*domain.Schedule, error),
) (*domain.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items.Get(id)
	if !ok {
		return nil, ports.ErrScheduleNotFound
	}

	next, err := fn(v.(*domain.Schedule).Clone())
	if err != nil {
		return nil, err
	}

	r.items.SetDefault(id, next.Clone())
	return next.Clone(), nil
}

// Len reports how many schedules are held, including expired ones not yet swept.
func (r *MemoryScheduleRepository) Len() int {
	return r.items.ItemCount()
}
