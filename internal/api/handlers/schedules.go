package handlers

import (
	"fmt"
	"net/http"
	"showing-route-service/internal/api/dto"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
	"showing-route-service/internal/services"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type ScheduleHandler struct {
	Schedules ports.ScheduleRepository
	Now       func() time.Time
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, err := h.Schedules.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, false)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewScheduleResponse(id, s))
}

// EditTime pins a stop to a new appointment time and re-flows the stops after it.
func (h *ScheduleHandler) EditTime(w http.ResponseWriter, r *http.Request) {
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	var req dto.EditTimeRequest
	if msg := decodeJSON(r, &req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	if req.AppointmentTime == "" {
		writeError(w, r, http.StatusBadRequest, "appointment_time is required")
		return
	}

	h.update(w, r, func(s *domain.Schedule) (*domain.Schedule, error) {
		// A wall-clock edit keeps the stop on its own date, which differs
		// from the first stop's once a route runs past midnight.
		day := s.Totals.ScheduleStart
		if position >= 0 && position < len(s.Items) {
			day = s.StopAt(position).AppointmentTime
		}
		at, err := parseAppointmentTime(req.AppointmentTime, day)
		if err != nil {
			return nil, err
		}
		return services.EditTime(s, position, at)
	})
}

// EditDuration changes how long a showing lasts and re-flows the stops after it.
func (h *ScheduleHandler) EditDuration(w http.ResponseWriter, r *http.Request) {
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	var req dto.EditDurationRequest
	if msg := decodeJSON(r, &req); msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}
	if req.VisitDuration == nil {
		writeError(w, r, http.StatusBadRequest, "visit_duration is required")
		return
	}
	minutes := *req.VisitDuration
	if minutes < minVisitDuration || minutes > maxVisitDuration {
		writeError(w, r, http.StatusBadRequest,
			fmt.Sprintf("visit_duration must be between %d and %d", minVisitDuration, maxVisitDuration))
		return
	}

	h.update(w, r, func(s *domain.Schedule) (*domain.Schedule, error) {
		return services.EditDuration(s, position, minutes)
	})
}

// ToggleFreeze flips whether a stop's appointment time is locked.
func (h *ScheduleHandler) ToggleFreeze(w http.ResponseWriter, r *http.Request) {
	position, ok := positionParam(w, r)
	if !ok {
		return
	}

	h.update(w, r, func(s *domain.Schedule) (*domain.Schedule, error) {
		return services.ToggleFrozen(s, position)
	})
}

// Itinerary renders the schedule as client text, agent detail or iCalendar.
func (h *ScheduleHandler) Itinerary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, err := h.Schedules.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, false)
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "client":
		writeText(w, "text/plain; charset=utf-8", services.ClientItinerary(s))
	case "detailed":
		writeText(w, "text/plain; charset=utf-8", services.DetailedItinerary(s, now))
	case "ical":
		w.Header().Set("Content-Disposition", `attachment; filename="showings.ics"`)
		writeText(w, "text/calendar; charset=utf-8", services.ICalendar(s, now))
	default:
		writeError(w, r, http.StatusBadRequest, "format must be client, detailed or ical")
	}
}

func (h *ScheduleHandler) update(
	w http.ResponseWriter,
	r *http.Request,
	fn func(*domain.Schedule) (*domain.Schedule, error),
) {
	id := chi.URLParam(r, "id")

	s, err := h.Schedules.Update(r.Context(), id, fn)
	if err != nil {
		writeServiceError(w, r, err, false)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewScheduleResponse(id, s))
}

func positionParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "position must be an integer")
		return 0, false
	}
	return position, true
}

type invalidTimeError struct{ value string }

func (e *invalidTimeError) Error() string {
	return fmt.Sprintf("appointment_time %q must be RFC3339 or HH:MM", e.value)
}

// parseAppointmentTime accepts RFC3339, or a wall-clock time on day.
func parseAppointmentTime(v string, day time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	tod, err := domain.ParseTimeOfDay(v)
	if err != nil {
		return time.Time{}, &invalidTimeError{value: v}
	}
	return tod.On(day), nil
}
