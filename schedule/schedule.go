// Package schedule reconciles a caregiver's weekly recurring availability
// with the slots already consumed by accepted bookings. Both the slots
// endpoint and the mobile booking calendar derive their view from it.
package schedule

import (
	"time"

	"github.com/carelink/carelink_backend/models"
)

// ScanHorizonDays bounds the closest-available-date search.
const ScanHorizonDays = 90

// BookingWindowMonths is the rolling window the booking calendar covers.
const BookingWindowMonths = 3

// DateKey formats a time as the calendar-day key used throughout the engine.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Midnight truncates a time to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Weekly is a day-of-week map of the slots a caregiver offers. Weekdays
// absent from the map are fully unavailable.
type Weekly map[time.Weekday]models.SlotSet

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// WeeklyFromDays builds the weekday map from a stored availability list.
// If the list carries duplicate entries for a day, slots are OR-ed together,
// since nothing upstream enforces uniqueness.
func WeeklyFromDays(days []models.AvailabilityDay) Weekly {
	w := make(Weekly)
	for _, d := range days {
		wd, ok := weekdayNames[d.Day]
		if !ok {
			continue
		}
		w[wd] = w[wd].Union(d.Slots)
	}
	return w
}

// SlotsOn returns the slots offered on a calendar date.
func (w Weekly) SlotsOn(date time.Time) models.SlotSet {
	return w[date.Weekday()]
}

// Occupancy is the per-date union of slots claimed by accepted bookings,
// keyed by DateKey.
type Occupancy map[string]models.SlotSet

// Accumulate ORs every booking's slots into a per-date occupancy map.
// Multiple bookings on the same date each contribute their own slots.
func Accumulate(bookings []models.Booking) Occupancy {
	occ := make(Occupancy)
	for _, b := range bookings {
		key := DateKey(b.Date)
		occ[key] = occ[key].Union(b.Slots)
	}
	return occ
}

// IsFullyBooked reports whether every slot the weekday offers is occupied.
// Slots availability never offers count as consumed, since they can never be
// sold; a weekday with no offered slots is trivially fully booked.
func IsFullyBooked(offered, occupied models.SlotSet) bool {
	if offered.Morning && !occupied.Morning {
		return false
	}
	if offered.Afternoon && !occupied.Afternoon {
		return false
	}
	if offered.Evening && !occupied.Evening {
		return false
	}
	return true
}

// FirstFreeSlot returns the first offered-and-unoccupied slot name in the
// fixed morning, afternoon, evening priority order.
func FirstFreeSlot(offered, occupied models.SlotSet) (string, bool) {
	if offered.Morning && !occupied.Morning {
		return "morning", true
	}
	if offered.Afternoon && !occupied.Afternoon {
		return "afternoon", true
	}
	if offered.Evening && !occupied.Evening {
		return "evening", true
	}
	return "", false
}

// ClosestAvailableDate scans forward day by day from today, up to
// ScanHorizonDays, and returns the first date whose weekday offers slots and
// is not fully booked. When no such date exists it falls back to today;
// booking attempts on the fallback still get validated against occupancy.
func ClosestAvailableDate(today time.Time, weekly Weekly, occ Occupancy) time.Time {
	start := Midnight(today)
	for i := 0; i <= ScanHorizonDays; i++ {
		date := start.AddDate(0, 0, i)
		offered := weekly.SlotsOn(date)
		if !offered.Any() {
			continue
		}
		if !IsFullyBooked(offered, occ[DateKey(date)]) {
			return date
		}
	}
	return start
}

// Summaries produces the per-date slot-occupancy view for every date that has
// occupancy, sorted implicitly by the caller's booking order. Dates with no
// accepted bookings are omitted: no occupancy anywhere is the empty steady
// state, not an error.
func Summaries(weekly Weekly, occ Occupancy) []models.SlotSummary {
	out := make([]models.SlotSummary, 0, len(occ))
	for key, slots := range occ {
		date, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		out = append(out, models.SlotSummary{
			Date:          key,
			Morning:       slots.Morning,
			Afternoon:     slots.Afternoon,
			Evening:       slots.Evening,
			IsFullyBooked: IsFullyBooked(weekly.SlotsOn(date), slots),
		})
	}
	return out
}

// BookingWindow returns the rolling window the calendar fetches accepted
// bookings for: today through today plus BookingWindowMonths.
func BookingWindow(today time.Time) (time.Time, time.Time) {
	start := Midnight(today)
	return start, start.AddDate(0, BookingWindowMonths, 0)
}
