package services

import (
	"context"
	"errors"
	"fmt"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/platform/obs"
	"showing-route-service/internal/ports"
)

type PlanRequest struct {
	Addresses     []string
	StartIndex    int
	VisitDuration int
}

// Planner runs a full "Calculate": geocode, fetch the travel matrix, then
// optimize. It holds its collaborators explicitly; there is no shared client.
type Planner struct {
	Geocoder ports.Geocoder
	Matrix   ports.DistanceMatrixProvider
}

func NewPlanner(geocoder ports.Geocoder, matrix ports.DistanceMatrixProvider) *Planner {
	return &Planner{Geocoder: geocoder, Matrix: matrix}
}

// Plan resolves every address and returns the optimized route structure.
//
// Any address without coordinates aborts the run with ErrUnresolvedAddress
// naming all failures. Provider errors are returned as-is (wrapped); nothing
// is retried here.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (_ *domain.RouteStructure, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	n := len(req.Addresses)
	if n == 0 {
		return PlanRoute(nil, req.StartIndex, domain.DistanceMatrix{})
	}
	if req.StartIndex < 0 || req.StartIndex >= n {
		return nil, &domain.ErrInvalidStartIndex{Index: req.StartIndex, Count: n}
	}
	if p.Geocoder == nil || p.Matrix == nil {
		return nil, errors.New("plan: geocoder and matrix provider are required")
	}

	results, err := p.Geocoder.Geocode(ctx, req.Addresses)
	if err != nil {
		return nil, fmt.Errorf("plan: geocode: %w", err)
	}
	if len(results) != n {
		return nil, fmt.Errorf("plan: geocoder returned %d results for %d addresses", len(results), n)
	}

	stops := make([]domain.Stop, 0, n)
	coords := make([]domain.Coordinates, 0, n)
	var unresolved []string
	for i, r := range results {
		if r.Coordinates == nil {
			unresolved = append(unresolved, req.Addresses[i])
			continue
		}
		stops = append(stops, domain.Stop{
			Index:         i,
			Address:       req.Addresses[i],
			Coordinates:   r.Coordinates,
			VisitDuration: req.VisitDuration,
		})
		coords = append(coords, *r.Coordinates)
	}
	if len(unresolved) > 0 {
		return nil, &domain.ErrUnresolvedAddress{Addresses: unresolved}
	}

	matrix := domain.NewDurationMatrix([][]int{{0}})
	if n > 1 {
		matrix, err = p.Matrix.DistanceMatrix(ctx, coords, coords)
		if err != nil {
			return nil, fmt.Errorf("plan: distance matrix: %w", err)
		}
	}

	return PlanRoute(stops, req.StartIndex, matrix)
}
