package services

import "showing-route-service/internal/domain"

// Derive driving, showing and elapsed totals plus the overall start and end
// of a schedule. Pure; safe to call after every mutation. An empty schedule
// has zero start and end times.
func ComputeTotals(stops []domain.Stop, items []domain.RouteItem) domain.Totals {
	var t domain.Totals
	for _, it := range items {
		t.TotalDrivingTime += it.TravelTimeFromPrevious
		t.TotalShowingTime += stops[it.StopIndex].VisitDuration
	}
	t.TotalTime = t.TotalDrivingTime + t.TotalShowingTime

	if len(items) > 0 {
		t.ScheduleStart = stops[items[0].StopIndex].AppointmentTime
		t.ScheduleEnd = stops[items[len(items)-1].StopIndex].End()
	}
	return t
}
