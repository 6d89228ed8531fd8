package distance

import (
	"context"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
)

// A known address and where it is.
type MockPoint struct {
	Address string
	Lon     float64
	Lat     float64
}

// A directed travel time between two mock addresses.
type MockPair struct {
	From, To string
	Minutes  int
	Meters   int
}

// MockDistanceProvider serves fixed geocodes and travel times. Unknown
// addresses geocode to nil and unknown pairs come back as domain.Unknown,
// mirroring what a real provider reports.
type MockDistanceProvider struct {
	points map[string]domain.Coordinates
	byKey  map[string]string
	pairs  map[string]MockPair

	GeocodeCalls int
	MatrixCalls  int
}

func NewMockDistanceProvider(points []MockPoint, pairs []MockPair) *MockDistanceProvider {
	p := &MockDistanceProvider{
		points: make(map[string]domain.Coordinates, len(points)),
		byKey:  make(map[string]string, len(points)),
		pairs:  make(map[string]MockPair, len(pairs)),
	}
	for _, pt := range points {
		c := domain.Coordinates{Lon: pt.Lon, Lat: pt.Lat}
		p.points[domain.NormalizeAddress(pt.Address)] = c
		p.byKey[c.Key()] = domain.NormalizeAddress(pt.Address)
	}
	for _, pr := range pairs {
		p.pairs[domain.NormalizeAddress(pr.From)+"|"+domain.NormalizeAddress(pr.To)] = pr
	}
	return p
}

func (p *MockDistanceProvider) Geocode(_ context.Context, addresses []string) ([]ports.GeocodeResult, error) {
	p.GeocodeCalls++

	out := make([]ports.GeocodeResult, 0, len(addresses))
	for _, a := range addresses {
		r := ports.GeocodeResult{Address: a}
		if c, ok := p.points[domain.NormalizeAddress(a)]; ok {
			c := c
			r.Coordinates = &c
		}
		out = append(out, r)
	}
	return out, nil
}

func (p *MockDistanceProvider) DistanceMatrix(
	_ context.Context,
	origins []domain.Coordinates,
	destinations []domain.Coordinates,
) (domain.DistanceMatrix, error) {
	p.MatrixCalls++

	m := domain.DistanceMatrix{
		Durations: make([][]int, len(origins)),
		Distances: make([][]int, len(origins)),
	}
	for i, o := range origins {
		m.Durations[i] = make([]int, len(destinations))
		m.Distances[i] = make([]int, len(destinations))
		for j, d := range destinations {
			if o.Key() == d.Key() {
				continue
			}
			pr, ok := p.pairs[p.byKey[o.Key()]+"|"+p.byKey[d.Key()]]
			if !ok {
				m.Durations[i][j] = domain.Unknown
				m.Distances[i][j] = domain.Unknown
				continue
			}
			m.Durations[i][j] = pr.Minutes
			m.Distances[i][j] = pr.Meters
		}
	}
	return m, nil
}
