package services

import (
	"showing-route-service/internal/domain"
	"time"
)

// EditTime sets the appointment time of the stop at position and cascades
// the change to every later stop.
//
// The edited stop is always moved, frozen or not. The input schedule is never
// modified; on error it is returned unchanged alongside the error.
func EditTime(s *domain.Schedule, position int, at time.Time) (*domain.Schedule, error) {
	if err := checkPosition(s, position); err != nil {
		return s, err
	}

	out := s.Clone()
	out.StopAt(position).AppointmentTime = at
	cascadeFrom(out, position+1)
	out.Totals = ComputeTotals(out.Stops, out.Items)
	return out, nil
}

// EditDuration sets the visit duration of the stop at position. The stop's
// own appointment time is kept; only later stops move.
func EditDuration(s *domain.Schedule, position int, visitMinutes int) (*domain.Schedule, error) {
	if err := checkPosition(s, position); err != nil {
		return s, err
	}
	if visitMinutes < 0 {
		return s, &domain.ErrInvalidDuration{Minutes: visitMinutes}
	}

	out := s.Clone()
	out.StopAt(position).VisitDuration = visitMinutes
	cascadeFrom(out, position+1)
	out.Totals = ComputeTotals(out.Stops, out.Items)
	return out, nil
}

// ToggleFrozen flips the frozen flag of the stop at position. No times are
// recomputed; the flag takes effect on the next cascade.
func ToggleFrozen(s *domain.Schedule, position int) (*domain.Schedule, error) {
	if err := checkPosition(s, position); err != nil {
		return s, err
	}

	out := s.Clone()
	stop := out.StopAt(position)
	stop.Frozen = !stop.Frozen
	return out, nil
}

// cascadeFrom recomputes appointment times left to right starting at from.
// Frozen stops keep their time but still anchor their successor. Conflicts
// (a stop starting before its predecessor ends) are not detected.
func cascadeFrom(s *domain.Schedule, from int) {
	if from < 1 {
		from = 1
	}
	for i := from; i < len(s.Items); i++ {
		cur := s.StopAt(i)
		if cur.Frozen {
			continue
		}
		prev := s.StopAt(i - 1)
		cur.AppointmentTime = prev.End().Add(minutes(s.Items[i].TravelTimeFromPrevious))
	}
}

func checkPosition(s *domain.Schedule, position int) error {
	if s == nil || position < 0 || position >= len(s.Items) {
		count := 0
		if s != nil {
			count = len(s.Items)
		}
		return &domain.ErrInvalidEditTarget{Position: position, Count: count}
	}
	return nil
}
