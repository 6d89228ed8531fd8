package domain

// Tour is an ordered permutation of stop indices. It always begins with the
// designated starting stop.
type Tour []int

// Valid reports whether the tour visits each of the n stops exactly once.
func (t Tour) Valid(n int) bool {
	if len(t) != n {
		return false
	}

	seen := make([]bool, n)
	for _, idx := range t {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Cost sums the travel time over consecutive tour legs.
// ok is false if any leg is missing from the matrix.
func (t Tour) Cost(m DistanceMatrix) (total int, ok bool) {
	for k := 0; k+1 < len(t); k++ {
		d, found := m.Duration(t[k], t[k+1])
		if !found {
			return 0, false
		}
		total += d
	}
	return total, true
}

// Clone returns an independent copy of the tour.
func (t Tour) Clone() Tour {
	out := make(Tour, len(t))
	copy(out, t)
	return out
}
