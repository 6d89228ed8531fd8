package services

import (
	"errors"
	"math"
	"showing-route-service/internal/domain"
)

// Build an initial visiting order using a greedy nearest-neighbor heuristic.
//
// Starting at start, the algorithm repeatedly moves to the unvisited stop with
// the smallest travel duration from the current stop. Ties go to the lowest
// stop index so the result is reproducible. A missing matrix cell for any
// unvisited candidate is fatal: no distance is ever fabricated.
func ConstructTour(m domain.DistanceMatrix, start int, n int) (domain.Tour, error) {
	if n <= 0 {
		return domain.Tour{}, nil
	}
	if start < 0 || start >= n {
		return nil, &domain.ErrInvalidStartIndex{Index: start, Count: n}
	}
	if n == 1 {
		return domain.Tour{0}, nil
	}
	if n == 2 {
		return domain.Tour{start, 1 - start}, nil
	}

	visited := make([]bool, n)
	visited[start] = true
	tour := make(domain.Tour, 0, n)
	tour = append(tour, start)

	current := start
	for len(tour) < n {
		best := -1
		minDuration := math.MaxInt

		// Ascending scan with strict < keeps the lowest index on ties.
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}

			d, ok := m.Duration(current, candidate)
			if !ok {
				return nil, &domain.ErrIncompleteDistanceData{From: current, To: candidate}
			}
			if d < minDuration {
				minDuration = d
				best = candidate
			}
		}

		if best == -1 {
			return nil, errors.New("construct tour: failed to select next stop")
		}

		tour = append(tour, best)
		visited[best] = true
		current = best
	}

	return tour, nil
}
