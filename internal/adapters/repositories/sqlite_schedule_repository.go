package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SQLite-backed implementation of the ScheduleRepository port.
// Schedules are stored as JSON and expire ttl after their last write.
type SqliteScheduleRepository struct {
	DB  *sql.DB
	ttl time.Duration
	now func() time.Time

	// Serializes read-modify-write cycles in Update.
	mu sync.Mutex
}

func NewSqliteScheduleRepository(db *sql.DB, ttl time.Duration) *SqliteScheduleRepository {
	return &SqliteScheduleRepository{DB: db, ttl: ttl, now: time.Now}
}

func (s *SqliteScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) (string, error) {
	if s.DB == nil {
		return "", errors.New("sqlite schedule repository: DB is nil")
	}

	body, err := json.Marshal(schedule)
	if err != nil {
		return "", fmt.Errorf("create schedule: encode: %w", err)
	}

	id := uuid.NewString()
	now := s.now()
	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO schedules (id, body, updated_at, expires_at)
	VALUES (?, ?, ?, ?);
	`, id, string(body), now.Unix(), now.Add(s.ttl).Unix())
	if err != nil {
		return "", fmt.Errorf("create schedule: insert: %w", err)
	}

	return id, nil
}

func (s *SqliteScheduleRepository) Get(ctx context.Context, id string) (*domain.Schedule, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite schedule repository: DB is nil")
	}
	return s.load(ctx, s.DB, id)
}

func (s *SqliteScheduleRepository) Update(
	ctx context.Context,
	id string,
	fn func(*domain.Schedule) (*domain.Schedule, error),
) (*domain.Schedule, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite schedule repository: DB is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update schedule: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.load(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("update schedule: encode: %w", err)
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx, `
	UPDATE schedules
	SET body = ?, updated_at = ?, expires_at = ?
	WHERE id = ?;
	`, string(body), now.Unix(), now.Add(s.ttl).Unix(), id); err != nil {
		return nil, fmt.Errorf("update schedule: write: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update schedule: commit tx: %w", err)
	}

	return next.Clone(), nil
}

// DeleteExpired removes schedules past their expiry and reports how many went.
func (s *SqliteScheduleRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM schedules WHERE expires_at <= ?;`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("delete expired schedules: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired schedules: rows affected: %w", err)
	}
	return n, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SqliteScheduleRepository) load(ctx context.Context, q queryer, id string) (*domain.Schedule, error) {
	var body string
	err := q.QueryRowContext(ctx, `
	SELECT body
	FROM schedules
	WHERE id = ? AND expires_at > ?;
	`, id, s.now().Unix()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %q: query: %w", id, err)
	}

	var schedule domain.Schedule
	if err := json.Unmarshal([]byte(body), &schedule); err != nil {
		return nil, fmt.Errorf("get schedule %q: decode: %w", id, err)
	}
	return &schedule, nil
}
