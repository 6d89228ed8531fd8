package services

import (
	"fmt"
	"showing-route-service/internal/domain"
)

// Plan a visiting order for stops beginning at startIndex.
//
// The tour is built with nearest-neighbor and refined with 2-opt, then turned
// into an un-timed RouteStructure. Every stop must already carry coordinates;
// the matrix is indexed by stop index. An empty stop set yields an empty
// structure rather than an error.
func PlanRoute(stops []domain.Stop, startIndex int, m domain.DistanceMatrix) (*domain.RouteStructure, error) {
	if len(stops) == 0 {
		return &domain.RouteStructure{
			Stops: []domain.Stop{},
			Items: []domain.RouteItem{},
		}, nil
	}

	var unresolved []string
	for _, s := range stops {
		if s.Coordinates == nil {
			unresolved = append(unresolved, s.Address)
		}
	}
	if len(unresolved) > 0 {
		return nil, &domain.ErrUnresolvedAddress{Addresses: unresolved}
	}

	for i, s := range stops {
		if s.Index != i {
			return nil, fmt.Errorf("plan route: stop at position %d has index %d", i, s.Index)
		}
	}

	tour, err := ConstructTour(m, startIndex, len(stops))
	if err != nil {
		return nil, fmt.Errorf("plan route: construct tour: %w", err)
	}

	improved := ImproveTour(tour, m)

	structure, err := BuildRouteStructure(improved.Tour, stops, m)
	if err != nil {
		return nil, fmt.Errorf("plan route: build structure: %w", err)
	}

	return structure, nil
}
