package services

import (
	"context"
	"errors"
	"showing-route-service/internal/domain"
	"showing-route-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGeocoder struct {
	known map[string]domain.Coordinates
	err   error
	short bool
	calls int
}

func (g *stubGeocoder) Geocode(_ context.Context, addresses []string) ([]ports.GeocodeResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	out := make([]ports.GeocodeResult, 0, len(addresses))
	for _, a := range addresses {
		r := ports.GeocodeResult{Address: a}
		if c, ok := g.known[a]; ok {
			c := c
			r.Coordinates = &c
		}
		out = append(out, r)
	}
	if g.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

type stubMatrix struct {
	m       domain.DistanceMatrix
	err     error
	calls   int
	origins int
}

func (s *stubMatrix) DistanceMatrix(_ context.Context, origins, _ []domain.Coordinates) (domain.DistanceMatrix, error) {
	s.calls++
	s.origins = len(origins)
	return s.m, s.err
}

func threeKnown() *stubGeocoder {
	return &stubGeocoder{known: map[string]domain.Coordinates{
		"A": {Lon: 0}, "B": {Lon: 1}, "C": {Lon: 2},
	}}
}

func TestPlannerPlan(t *testing.T) {
	geo := threeKnown()
	mx := &stubMatrix{m: scenarioMatrix()}
	p := NewPlanner(geo, mx)

	got, err := p.Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B", "C"}, VisitDuration: 30})
	require.NoError(t, err)

	assert.Equal(t, domain.Tour{0, 1, 2}, got.Tour())
	assert.Equal(t, 25, got.TotalDrivingTime)
	assert.Equal(t, "B", got.Stops[1].Address)
	assert.Equal(t, 30, got.Stops[2].VisitDuration)
	assert.Equal(t, 1, mx.calls)
	assert.Equal(t, 3, mx.origins)
}

func TestPlannerReportsEveryUnresolvedAddress(t *testing.T) {
	mx := &stubMatrix{m: scenarioMatrix()}
	p := NewPlanner(threeKnown(), mx)

	_, err := p.Plan(context.Background(), PlanRequest{Addresses: []string{"A", "X", "B", "Y"}})

	var unresolved *domain.ErrUnresolvedAddress
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, []string{"X", "Y"}, unresolved.Addresses)
	assert.Zero(t, mx.calls, "no matrix request once geocoding failed")
}

func TestPlannerSingleStopSkipsMatrix(t *testing.T) {
	mx := &stubMatrix{}
	p := NewPlanner(threeKnown(), mx)

	got, err := p.Plan(context.Background(), PlanRequest{Addresses: []string{"C"}, VisitDuration: 15})
	require.NoError(t, err)
	assert.Equal(t, domain.Tour{0}, got.Tour())
	assert.Zero(t, mx.calls)
}

func TestPlannerEmptyIsNoOp(t *testing.T) {
	geo := threeKnown()
	p := NewPlanner(geo, &stubMatrix{})

	got, err := p.Plan(context.Background(), PlanRequest{})
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assert.Zero(t, geo.calls)
}

func TestPlannerRejectsStartIndexBeforeGeocoding(t *testing.T) {
	geo := threeKnown()
	p := NewPlanner(geo, &stubMatrix{})

	_, err := p.Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B"}, StartIndex: 2})

	var bad *domain.ErrInvalidStartIndex
	require.ErrorAs(t, err, &bad)
	assert.Zero(t, geo.calls)
}

func TestPlannerPropagatesProviderErrors(t *testing.T) {
	boom := errors.New("upstream down")

	_, err := NewPlanner(&stubGeocoder{err: boom}, &stubMatrix{}).
		Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B"}})
	require.ErrorIs(t, err, boom)

	_, err = NewPlanner(threeKnown(), &stubMatrix{err: boom}).
		Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B"}})
	require.ErrorIs(t, err, boom)

	short := threeKnown()
	short.short = true
	_, err = NewPlanner(short, &stubMatrix{}).
		Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B"}})
	require.Error(t, err)
}

func TestPlannerIncompleteMatrix(t *testing.T) {
	mx := &stubMatrix{m: domain.NewDurationMatrix([][]int{
		{0, domain.Unknown, 20},
		{10, 0, 15},
		{domain.Unknown, 15, 0},
	})}
	p := NewPlanner(threeKnown(), mx)

	_, err := p.Plan(context.Background(), PlanRequest{Addresses: []string{"A", "B", "C"}})

	var incomplete *domain.ErrIncompleteDistanceData
	require.ErrorAs(t, err, &incomplete)
}
