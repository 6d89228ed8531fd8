package services

import (
	"showing-route-service/internal/domain"
	"time"
)

// Combine the final tour with per-leg travel times into an un-timed route.
// Stops are copied through unchanged except that AppointmentTime is cleared.
func BuildRouteStructure(tour domain.Tour, stops []domain.Stop, m domain.DistanceMatrix) (*domain.RouteStructure, error) {
	outStops := make([]domain.Stop, len(stops))
	copy(outStops, stops)
	for i := range outStops {
		outStops[i].AppointmentTime = time.Time{}
	}

	items := make([]domain.RouteItem, 0, len(tour))
	total := 0
	for k, idx := range tour {
		travel := 0
		if k > 0 {
			d, ok := m.Duration(tour[k-1], idx)
			if !ok {
				return nil, &domain.ErrIncompleteDistanceData{From: tour[k-1], To: idx}
			}
			travel = d
		}
		total += travel
		items = append(items, domain.RouteItem{StopIndex: idx, TravelTimeFromPrevious: travel})
	}

	return &domain.RouteStructure{
		Stops:            outStops,
		Items:            items,
		TotalDrivingTime: total,
	}, nil
}
