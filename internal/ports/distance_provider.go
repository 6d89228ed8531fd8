package ports

import (
	"context"
	"showing-route-service/internal/domain"
)

// Outcome of geocoding one address. Coordinates is nil when the address
// could not be resolved.
type GeocodeResult struct {
	Address     string
	Coordinates *domain.Coordinates
}

// Contract for resolving free-text addresses into coordinates.
type Geocoder interface {
	// Return one result per input address, in input order.
	Geocode(ctx context.Context, addresses []string) ([]GeocodeResult, error)
}

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for retrieving travel durations between coordinates.
type DistanceMatrixProvider interface {
	// Return an origins x destinations matrix. Cells the provider could not
	// resolve are domain.Unknown; callers decide whether that is fatal.
	DistanceMatrix(ctx context.Context, origins, destinations []domain.Coordinates) (domain.DistanceMatrix, error)
}
