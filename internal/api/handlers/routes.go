package handlers

import (
	"context"
	"fmt"
	"net/http"
	"showing-route-service/internal/api/dto"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
	"showing-route-service/internal/services"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	minVisitDuration = 5
	maxVisitDuration = 120
)

type RoutePlanner interface {
	Plan(ctx context.Context, req services.PlanRequest) (*domain.RouteStructure, error)
}

// RouteDefaults fill in request fields the client leaves out.
type RouteDefaults struct {
	VisitDuration int
	DayStart      domain.TimeOfDay
	MaxStops      int
	PlanTimeout   time.Duration
	Location      *time.Location
}

type RouteHandler struct {
	Planner   RoutePlanner
	Schedules ports.ScheduleRepository
	Defaults  RouteDefaults
	Now       func() time.Time
}

// Plan geocodes and optimizes the requested stops, lays them out from the
// day start and stores the result as a new editable schedule.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRouteRequest
	if msg := decodeJSON(r, &req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	if h.Defaults.MaxStops > 0 && len(req.Addresses) > h.Defaults.MaxStops {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d addresses are allowed", h.Defaults.MaxStops))
		return
	}
	for i, a := range req.Addresses {
		if strings.TrimSpace(a) == "" {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("addresses[%d] is empty", i))
			return
		}
	}

	visit := h.Defaults.VisitDuration
	if req.VisitDuration != nil {
		visit = *req.VisitDuration
	}
	if visit < minVisitDuration || visit > maxVisitDuration {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("visit_duration must be between %d and %d", minVisitDuration, maxVisitDuration))
		return
	}

	dayStart := h.Defaults.DayStart
	if req.DayStart != "" {
		t, err := domain.ParseTimeOfDay(req.DayStart)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "day_start must be HH:MM")
			return
		}
		dayStart = t
	}

	day, err := h.day(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	ctx := r.Context()
	if h.Defaults.PlanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Defaults.PlanTimeout)
		defer cancel()
	}

	structure, err := h.Planner.Plan(ctx, services.PlanRequest{
		Addresses:     req.Addresses,
		StartIndex:    req.StartIndex,
		VisitDuration: visit,
	})
	if err == nil && ctx.Err() != nil {
		// A plan that completes after the deadline is discarded.
		err = ctx.Err()
	}
	if err != nil {
		writeServiceError(w, r, err, true)
		return
	}

	schedule := services.MaterializeSchedule(structure, dayStart, day)

	id, err := h.Schedules.Create(r.Context(), schedule)
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("store schedule: %w", err), false)
		return
	}

	zerolog.Ctx(r.Context()).Info().
		Str("schedule_id", id).
		Int("stops", len(schedule.Items)).
		Int("total_time", schedule.Totals.TotalTime).
		Msg("route planned")

	writeJSON(w, r, http.StatusCreated, dto.NewScheduleResponse(id, schedule))
}

func (h *RouteHandler) day(date string) (time.Time, error) {
	loc := h.Defaults.Location
	if loc == nil {
		loc = time.Local
	}
	if date == "" {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		return now().In(loc), nil
	}
	return time.ParseInLocation("2006-01-02", date, loc)
}
