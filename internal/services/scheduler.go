package services

import (
	"showing-route-service/internal/domain"
	"time"
)

// Turn a route structure into a concrete timeline.
//
// The first stop starts at dayStart on the date (and in the location) of on.
// Each later stop starts after the previous visit ends plus the travel time
// to it. Frozen flags are ignored here; they only constrain later edits.
func MaterializeSchedule(structure *domain.RouteStructure, dayStart domain.TimeOfDay, on time.Time) *domain.Schedule {
	s := &domain.Schedule{
		Stops: make([]domain.Stop, len(structure.Stops)),
		Items: make([]domain.RouteItem, len(structure.Items)),
	}
	copy(s.Stops, structure.Stops)
	copy(s.Items, structure.Items)

	cursor := dayStart.On(on)
	for k, item := range s.Items {
		if k > 0 {
			cursor = cursor.Add(minutes(item.TravelTimeFromPrevious))
		}
		stop := &s.Stops[item.StopIndex]
		stop.AppointmentTime = cursor
		cursor = cursor.Add(minutes(stop.VisitDuration))
	}

	s.Totals = ComputeTotals(s.Stops, s.Items)
	return s
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
