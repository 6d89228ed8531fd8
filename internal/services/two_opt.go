package services

import "showing-route-service/internal/domain"

// Result of a 2-opt improvement run.
type TourImprovement struct {
	Tour   domain.Tour
	Cost   int
	Passes int
}

// Refine a tour with 2-opt local search.
//
// Each pass tries every reversal of tour[i..j] with 1 <= i < j < n and j-i > 1,
// keeping the start stop fixed in place. A reversal is adopted only when the
// full tour cost strictly decreases; reversals that touch a missing matrix
// cell are treated as non-improving. Passes repeat until one makes no change.
// The cost is a non-negative integer that drops on every accepted move, so
// the search always terminates.
//
// The input tour must be fully costed (every consecutive leg present), which
// ConstructTour guarantees.
func ImproveTour(tour domain.Tour, m domain.DistanceMatrix) TourImprovement {
	best := tour.Clone()
	bestCost, ok := best.Cost(m)
	if !ok {
		return TourImprovement{Tour: best, Cost: bestCost}
	}

	n := len(best)
	passes := 0
	improved := true
	for improved {
		improved = false
		passes++

		for i := 1; i < n-1; i++ {
			for j := i + 2; j < n; j++ {
				candidate := best.Clone()
				reverse(candidate, i, j)

				cost, ok := candidate.Cost(m)
				if !ok {
					continue
				}
				if cost < bestCost {
					best = candidate
					bestCost = cost
					improved = true
				}
			}
		}
	}

	return TourImprovement{Tour: best, Cost: bestCost, Passes: passes}
}

// reverse flips t[i..j] in place.
func reverse(t domain.Tour, i, j int) {
	for i < j {
		t[i], t[j] = t[j], t[i]
		i++
		j--
	}
}
