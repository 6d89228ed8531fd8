package dto

import (
	"showing-route-service/internal/domain"
	"time"
)

type PlanRouteRequest struct {
	Addresses     []string `json:"addresses"`
	StartIndex    int      `json:"start_index"`
	VisitDuration *int     `json:"visit_duration"`
	// "HH:MM"; defaults to the configured day start.
	DayStart string `json:"day_start"`
	// "YYYY-MM-DD"; defaults to today in the configured time zone.
	Date string `json:"date"`
}

type EditTimeRequest struct {
	// RFC3339, or "HH:MM" on the edited stop's day.
	AppointmentTime string `json:"appointment_time"`
}

type EditDurationRequest struct {
	VisitDuration *int `json:"visit_duration"`
}

type ScheduledStopResponse struct {
	Position               int                 `json:"position"`
	StopIndex              int                 `json:"stop_index"`
	Address                string              `json:"address"`
	Coordinates            *domain.Coordinates `json:"coordinates"`
	VisitDuration          int                 `json:"visit_duration"`
	Frozen                 bool                `json:"frozen"`
	AppointmentTime        time.Time           `json:"appointment_time"`
	EndTime                time.Time           `json:"end_time"`
	TravelTimeFromPrevious int                 `json:"travel_time_from_previous"`
}

type TotalsResponse struct {
	TotalDrivingTime int        `json:"total_driving_time"`
	TotalShowingTime int        `json:"total_showing_time"`
	TotalTime        int        `json:"total_time"`
	ScheduleStart    *time.Time `json:"schedule_start,omitempty"`
	ScheduleEnd      *time.Time `json:"schedule_end,omitempty"`
}

type ScheduleResponse struct {
	ID     string                  `json:"id"`
	Stops  []ScheduledStopResponse `json:"stops"`
	Totals TotalsResponse          `json:"totals"`
}

type ErrorResponse struct {
	Error     string   `json:"error"`
	Addresses []string `json:"addresses,omitempty"`
}

// NewScheduleResponse lists the stops in visiting order.
func NewScheduleResponse(id string, s *domain.Schedule) ScheduleResponse {
	res := ScheduleResponse{
		ID:    id,
		Stops: make([]ScheduledStopResponse, 0, len(s.Items)),
		Totals: TotalsResponse{
			TotalDrivingTime: s.Totals.TotalDrivingTime,
			TotalShowingTime: s.Totals.TotalShowingTime,
			TotalTime:        s.Totals.TotalTime,
		},
	}

	if len(s.Items) > 0 {
		start, end := s.Totals.ScheduleStart, s.Totals.ScheduleEnd
		res.Totals.ScheduleStart = &start
		res.Totals.ScheduleEnd = &end
	}

	for pos, it := range s.Items {
		st := s.Stops[it.StopIndex]
		res.Stops = append(res.Stops, ScheduledStopResponse{
			Position:               pos,
			StopIndex:              it.StopIndex,
			Address:                st.Address,
			Coordinates:            st.Coordinates,
			VisitDuration:          st.VisitDuration,
			Frozen:                 st.Frozen,
			AppointmentTime:        st.AppointmentTime,
			EndTime:                st.End(),
			TravelTimeFromPrevious: it.TravelTimeFromPrevious,
		})
	}

	return res
}
