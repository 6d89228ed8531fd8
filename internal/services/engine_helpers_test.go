package services

import (
	"math/rand"
	"showing-route-service/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 5, 14, hour, minute, 0, 0, time.UTC)
}

// scenarioMatrix is the 3-stop example used across the engine tests.
func scenarioMatrix() domain.DistanceMatrix {
	return domain.NewDurationMatrix([][]int{
		{0, 10, 20},
		{10, 0, 15},
		{20, 15, 0},
	})
}

func makeStops(n, visit int) []domain.Stop {
	stops := make([]domain.Stop, n)
	for i := range stops {
		stops[i] = domain.Stop{
			Index:         i,
			Address:       "stop",
			Coordinates:   &domain.Coordinates{Lon: float64(i), Lat: float64(i)},
			VisitDuration: visit,
		}
	}
	return stops
}

func randomMatrix(r *rand.Rand, n int) domain.DistanceMatrix {
	d := make([][]int, n)
	for i := range d {
		d[i] = make([]int, n)
		for j := range d[i] {
			if i != j {
				d[i][j] = 1 + r.Intn(100)
			}
		}
	}
	return domain.NewDurationMatrix(d)
}

func scenarioSchedule(t *testing.T) *domain.Schedule {
	t.Helper()
	structure, err := PlanRoute(makeStops(3, 30), 0, scenarioMatrix())
	require.NoError(t, err)

	start, err := domain.ParseTimeOfDay("09:00")
	require.NoError(t, err)
	return MaterializeSchedule(structure, start, testDay)
}

func appointmentTimes(s *domain.Schedule) []time.Time {
	out := make([]time.Time, len(s.Items))
	for k := range s.Items {
		out[k] = s.StopAt(k).AppointmentTime
	}
	return out
}
