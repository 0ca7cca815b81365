package schedule

import (
	"time"

	"github.com/carelink/carelink_backend/models"
)

// DayMarker drives one calendar cell: a dot per occupied slot and a disabled
// flag when the date cannot take any new booking.
type DayMarker struct {
	Dots     []string `json:"dots,omitempty"`
	Disabled bool     `json:"disabled"`
}

// Markers tags every date in the window with its occupancy dots and disables
// dates whose weekday is unavailable or that are already fully booked.
func Markers(today time.Time, weekly Weekly, occ Occupancy) map[string]DayMarker {
	start, end := BookingWindow(today)
	out := make(map[string]DayMarker)
	for date := start; date.Before(end); date = date.AddDate(0, 0, 1) {
		offered := weekly.SlotsOn(date)
		occupied := occ[DateKey(date)]
		marker := DayMarker{
			Dots:     dots(occupied),
			Disabled: !offered.Any() || IsFullyBooked(offered, occupied),
		}
		out[DateKey(date)] = marker
	}
	return out
}

func dots(occupied models.SlotSet) []string {
	var d []string
	if occupied.Morning {
		d = append(d, "morning")
	}
	if occupied.Afternoon {
		d = append(d, "afternoon")
	}
	if occupied.Evening {
		d = append(d, "evening")
	}
	return d
}
