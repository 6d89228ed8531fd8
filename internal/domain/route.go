package domain

import "time"

// Represents one stop in final visiting order together with the travel time
// (minutes) from the stop before it. TravelTimeFromPrevious is 0 for the first item.
type RouteItem struct {
	StopIndex              int `json:"stop_index"`
	TravelTimeFromPrevious int `json:"travel_time_from_previous"`
}

// Represents the ordered, un-timed result of an optimization run.
// Stops are held by original index; Items reference them by StopIndex.
// A RouteStructure is rebuilt only when the stop set changes or a full
// recalculation is requested.
type RouteStructure struct {
	Stops            []Stop      `json:"stops"`
	Items            []RouteItem `json:"items"`
	TotalDrivingTime int         `json:"total_driving_time"`
}

// Tour returns the visiting order as stop indices.
func (r *RouteStructure) Tour() Tour {
	t := make(Tour, 0, len(r.Items))
	for _, it := range r.Items {
		t = append(t, it.StopIndex)
	}
	return t
}

// Totals aggregates a schedule's timing.
type Totals struct {
	TotalDrivingTime int       `json:"total_driving_time"`
	TotalShowingTime int       `json:"total_showing_time"`
	TotalTime        int       `json:"total_time"`
	ScheduleStart    time.Time `json:"schedule_start"`
	ScheduleEnd      time.Time `json:"schedule_end"`
}

// Schedule is the live, editable timeline derived from a RouteStructure.
// Every stop referenced by Items has its AppointmentTime set.
type Schedule struct {
	Stops  []Stop      `json:"stops"`
	Items  []RouteItem `json:"items"`
	Totals Totals      `json:"totals"`
}

// StopAt returns the stop visited at the given position.
func (s *Schedule) StopAt(position int) *Stop {
	return &s.Stops[s.Items[position].StopIndex]
}

// Clone returns a deep copy so edits never alias the original.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		Stops:  make([]Stop, len(s.Stops)),
		Items:  make([]RouteItem, len(s.Items)),
		Totals: s.Totals,
	}
	copy(out.Items, s.Items)
	for i, st := range s.Stops {
		if st.Coordinates != nil {
			c := *st.Coordinates
			st.Coordinates = &c
		}
		out.Stops[i] = st
	}
	return out
}
