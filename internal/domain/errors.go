package domain

import (
	"fmt"
	"strings"
)

// ErrUnresolvedAddress is returned when geocoding produced no coordinates
// for one or more stops. Addresses lists every failed input.
type ErrUnresolvedAddress struct {
	Addresses []string
}

func (e *ErrUnresolvedAddress) Error() string {
	return fmt.Sprintf("unresolved addresses: %s", strings.Join(e.Addresses, "; "))
}

// ErrIncompleteDistanceData is returned when the distance matrix lacks a
// cell that tour construction or route building needs.
type ErrIncompleteDistanceData struct {
	From int
	To   int
}

func (e *ErrIncompleteDistanceData) Error() string {
	return fmt.Sprintf("incomplete distance data: no travel time from stop %d to stop %d", e.From, e.To)
}

// ErrInvalidEditTarget is returned when an edit names a position outside the schedule.
type ErrInvalidEditTarget struct {
	Position int
	Count    int
}

func (e *ErrInvalidEditTarget) Error() string {
	return fmt.Sprintf("invalid edit target: position %d out of range [0, %d)", e.Position, e.Count)
}

// ErrInvalidStartIndex is returned when the starting stop is not one of the stops.
type ErrInvalidStartIndex struct {
	Index int
	Count int
}

func (e *ErrInvalidStartIndex) Error() string {
	return fmt.Sprintf("invalid start index %d for %d stops", e.Index, e.Count)
}

// ErrInvalidDuration is returned for a negative visit duration.
type ErrInvalidDuration struct {
	Minutes int
}

func (e *ErrInvalidDuration) Error() string {
	return fmt.Sprintf("invalid visit duration: %d minutes", e.Minutes)
}
