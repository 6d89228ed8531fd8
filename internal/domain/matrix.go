package domain

// Unknown marks a matrix cell the distance provider could not resolve.
const Unknown = -1

// DistanceMatrix holds travel durations (minutes) and distances (meters)
// between stops, indexed by stop index. It is not assumed to be symmetric.
type DistanceMatrix struct {
	Durations [][]int `json:"durations"`
	Distances [][]int `json:"distances"`
}

// NewDurationMatrix builds a matrix from durations only.
func NewDurationMatrix(durations [][]int) DistanceMatrix {
	return DistanceMatrix{Durations: durations}
}

// Duration returns the travel time from one stop to another.
// ok is false when the cell is missing or Unknown.
func (m DistanceMatrix) Duration(from, to int) (minutes int, ok bool) {
	if from < 0 || from >= len(m.Durations) {
		return 0, false
	}
	row := m.Durations[from]
	if to < 0 || to >= len(row) {
		return 0, false
	}
	if row[to] < 0 {
		return 0, false
	}
	return row[to], true
}
