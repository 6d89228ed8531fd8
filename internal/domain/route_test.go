package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourValid(t *testing.T) {
	assert.True(t, Tour{2, 0, 1}.Valid(3))
	assert.True(t, Tour{}.Valid(0))
	assert.False(t, Tour{0, 0, 1}.Valid(3))
	assert.False(t, Tour{0, 1}.Valid(3))
	assert.False(t, Tour{0, 1, 3}.Valid(3))
}

func TestTourCost(t *testing.T) {
	m := NewDurationMatrix([][]int{
		{0, 10, 20},
		{10, 0, 15},
		{20, Unknown, 0},
	})

	cost, ok := Tour{0, 1, 2}.Cost(m)
	require.True(t, ok)
	assert.Equal(t, 25, cost)

	_, ok = Tour{0, 2, 1}.Cost(m)
	assert.False(t, ok, "unknown cell must not be costed")
}

func TestDistanceMatrixDurationRagged(t *testing.T) {
	m := NewDurationMatrix([][]int{{0, 5}, {5}})

	_, ok := m.Duration(1, 1)
	assert.False(t, ok)
	_, ok = m.Duration(2, 0)
	assert.False(t, ok)
	d, ok := m.Duration(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 5, d)
}

func TestScheduleCloneDoesNotAlias(t *testing.T) {
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	orig := &Schedule{
		Stops: []Stop{{Index: 0, Coordinates: &Coordinates{Lon: 1, Lat: 2}, AppointmentTime: at}},
		Items: []RouteItem{{StopIndex: 0}},
	}

	cp := orig.Clone()
	cp.Stops[0].Frozen = true
	cp.Stops[0].Coordinates.Lat = 99
	cp.Items[0].TravelTimeFromPrevious = 7

	assert.False(t, orig.Stops[0].Frozen)
	assert.Equal(t, 2.0, orig.Stops[0].Coordinates.Lat)
	assert.Equal(t, 0, orig.Items[0].TravelTimeFromPrevious)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, tod)
	assert.Equal(t, "09:05", tod.String())

	loc := time.FixedZone("test", -7*3600)
	day := time.Date(2026, 3, 4, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 5, 0, 0, loc), tod.On(day))

	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
}

func TestCoordinatesKeyRounds(t *testing.T) {
	a := Coordinates{Lon: -112.0740401, Lat: 33.4483771}
	b := Coordinates{Lon: -112.0740399, Lat: 33.4483769}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "33.44838,-112.07404", a.Key())
}
