package services

import (
	"fmt"
	"showing-route-service/internal/domain"
	"strings"
	"time"
)

const (
	displayTimeLayout = "3:04 PM"
	clockLayout       = "15:04"
	icalLayout        = "20060102T150405"
)

// ClientItinerary renders a short, SMS-friendly schedule for buyers.
func ClientItinerary(s *domain.Schedule) string {
	if len(s.Items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("PROPERTY SHOWING SCHEDULE\n\n")

	for k, item := range s.Items {
		stop := s.Stops[item.StopIndex]
		fmt.Fprintf(&b, "%d. %s\n", k+1, stop.AppointmentTime.Format(displayTimeLayout))
		fmt.Fprintf(&b, "   %s\n", stop.Address)
		if k > 0 && item.TravelTimeFromPrevious > 0 {
			fmt.Fprintf(&b, "   %d min drive from previous\n", item.TravelTimeFromPrevious)
		}
		b.WriteString("\n")
	}

	b.WriteString("SUMMARY:\n")
	fmt.Fprintf(&b, "- %d properties\n", len(s.Items))
	fmt.Fprintf(&b, "- %s total time\n", formatMinutes(s.Totals.TotalTime))
	fmt.Fprintf(&b, "- %s driving\n\n", formatMinutes(s.Totals.TotalDrivingTime))
	b.WriteString("Please let me know if you need any adjustments!")

	return b.String()
}

// DetailedItinerary renders the agent's working copy, including frozen
// markers, coordinates and a per-stop timing breakdown.
func DetailedItinerary(s *domain.Schedule, generatedAt time.Time) string {
	if len(s.Items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("PROPERTY SHOWING ITINERARY\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")

	b.WriteString("Schedule Overview:\n")
	fmt.Fprintf(&b, "Start Time: %s\n", s.Totals.ScheduleStart.Format(displayTimeLayout))
	fmt.Fprintf(&b, "End Time: %s\n", s.Totals.ScheduleEnd.Format(displayTimeLayout))
	fmt.Fprintf(&b, "Total Duration: %s\n\n", formatMinutes(s.Totals.TotalTime))

	for k, item := range s.Items {
		stop := s.Stops[item.StopIndex]
		fmt.Fprintf(&b, "%d. %s - %s\n", k+1, stop.AppointmentTime.Format(displayTimeLayout), stop.Address)
		fmt.Fprintf(&b, "   Showing Duration: %d minutes\n", stop.VisitDuration)
		if item.TravelTimeFromPrevious > 0 {
			fmt.Fprintf(&b, "   Drive time: %d minutes\n", item.TravelTimeFromPrevious)
		}
		if stop.Frozen {
			b.WriteString("   APPOINTMENT TIME FROZEN\n")
		}
		if stop.Coordinates != nil {
			fmt.Fprintf(&b, "   GPS: %.6f, %.6f\n", stop.Coordinates.Lat, stop.Coordinates.Lon)
		}
		b.WriteString("\n")
	}

	b.WriteString("ROUTE SUMMARY:\n")
	fmt.Fprintf(&b, "Total Properties: %d\n", len(s.Items))
	fmt.Fprintf(&b, "Total Time: %s\n", formatMinutes(s.Totals.TotalTime))
	fmt.Fprintf(&b, "Driving Time: %s\n", formatMinutes(s.Totals.TotalDrivingTime))
	fmt.Fprintf(&b, "Showing Time: %s\n", formatMinutes(s.Totals.TotalShowingTime))

	b.WriteString("\nTIMING BREAKDOWN:\n")
	for k, item := range s.Items {
		stop := s.Stops[item.StopIndex]
		fmt.Fprintf(&b, "%d. %s-%s (%dmin)\n",
			k+1,
			stop.AppointmentTime.Format(clockLayout),
			stop.End().Format(clockLayout),
			stop.VisitDuration,
		)
	}

	fmt.Fprintf(&b, "\nGenerated: %s", generatedAt.Format("Jan 2, 2006, 3:04:05 PM"))
	return b.String()
}

// ICalendar renders one VEVENT per stop. stamp makes UIDs unique per export.
func ICalendar(s *domain.Schedule, stamp time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//Showing Route Service//Real Estate Showing//EN\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	for _, item := range s.Items {
		stop := s.Stops[item.StopIndex]
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:showing-%d-%d\r\n", stop.Index, stamp.Unix())
		fmt.Fprintf(&b, "DTSTAMP:%sZ\r\n", stamp.UTC().Format(icalLayout))
		fmt.Fprintf(&b, "DTSTART:%s\r\n", stop.AppointmentTime.Format(icalLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", stop.End().Format(icalLayout))
		fmt.Fprintf(&b, "SUMMARY:Property Showing - %s\r\n", icalEscape(stop.Address))
		fmt.Fprintf(&b, "DESCRIPTION:Property showing appointment\\n\\nDuration: %d minutes\r\n", stop.VisitDuration)
		fmt.Fprintf(&b, "LOCATION:%s\r\n", icalEscape(stop.Address))
		b.WriteString("STATUS:CONFIRMED\r\n")
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

var icalReplacer = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`, "\r", "")

func icalEscape(s string) string {
	return icalReplacer.Replace(s)
}
