package domain

import "time"

// Stop is one property to visit.
//
// Index is the stop's position in the original input list and never changes,
// even after the tour reorders the visit. AppointmentTime is zero until a
// schedule has been materialized.
type Stop struct {
	Index           int          `json:"index"`
	Address         string       `json:"address"`
	Coordinates     *Coordinates `json:"coordinates"`
	VisitDuration   int          `json:"visit_duration"`
	Frozen          bool         `json:"frozen"`
	AppointmentTime time.Time    `json:"appointment_time"`
}

// End returns when the visit at this stop finishes.
func (s Stop) End() time.Time {
	return s.AppointmentTime.Add(time.Duration(s.VisitDuration) * time.Minute)
}
