package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink_backend/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func bookingOn(date time.Time, slots models.SlotSet) models.Booking {
	return models.Booking{Date: date, Slots: slots, Status: models.BookingStatusAccepted}
}

func TestWeeklyFromDays(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true, Afternoon: true}},
		{Day: "Wednesday", Slots: models.SlotSet{Evening: true}},
		{Day: "NotADay", Slots: models.SlotSet{Morning: true}},
	})

	assert.Equal(t, models.SlotSet{Morning: true, Afternoon: true}, weekly[time.Monday])
	assert.Equal(t, models.SlotSet{Evening: true}, weekly[time.Wednesday])
	assert.False(t, weekly[time.Tuesday].Any(), "absent days are unavailable")
	assert.Len(t, weekly, 2, "unknown day names are ignored")
}

func TestWeeklyFromDaysMergesDuplicateEntries(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Friday", Slots: models.SlotSet{Morning: true}},
		{Day: "Friday", Slots: models.SlotSet{Evening: true}},
	})

	assert.Equal(t, models.SlotSet{Morning: true, Evening: true}, weekly[time.Friday])
}

func TestAccumulateORsSlotsPerDate(t *testing.T) {
	monday := day(2026, time.March, 2)
	occ := Accumulate([]models.Booking{
		bookingOn(monday, models.SlotSet{Morning: true}),
		bookingOn(monday, models.SlotSet{Afternoon: true}),
		bookingOn(monday.AddDate(0, 0, 2), models.SlotSet{Evening: true}),
	})

	assert.Equal(t, models.SlotSet{Morning: true, Afternoon: true}, occ[DateKey(monday)])
	assert.Equal(t, models.SlotSet{Evening: true}, occ[DateKey(monday.AddDate(0, 0, 2))])
	assert.False(t, occ[DateKey(monday.AddDate(0, 0, 1))].Any())
}

func TestIsFullyBooked(t *testing.T) {
	tests := []struct {
		name     string
		offered  models.SlotSet
		occupied models.SlotSet
		want     bool
	}{
		{
			name:     "all offered slots taken",
			offered:  models.SlotSet{Morning: true, Afternoon: true, Evening: true},
			occupied: models.SlotSet{Morning: true, Afternoon: true, Evening: true},
			want:     true,
		},
		{
			name:     "partial occupancy leaves the date open",
			offered:  models.SlotSet{Morning: true, Afternoon: true, Evening: true},
			occupied: models.SlotSet{Morning: true},
			want:     false,
		},
		{
			name:     "unoffered slot counts as consumed",
			offered:  models.SlotSet{Morning: true, Afternoon: true},
			occupied: models.SlotSet{Morning: true, Afternoon: true},
			want:     true,
		},
		{
			name:    "weekday with nothing offered is trivially full",
			offered: models.SlotSet{},
			want:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFullyBooked(tt.offered, tt.occupied))
		})
	}
}

func TestFirstFreeSlotPriorityOrder(t *testing.T) {
	offered := models.SlotSet{Morning: true, Afternoon: true, Evening: true}

	slot, ok := FirstFreeSlot(offered, models.SlotSet{})
	require.True(t, ok)
	assert.Equal(t, "morning", slot)

	slot, ok = FirstFreeSlot(offered, models.SlotSet{Morning: true})
	require.True(t, ok)
	assert.Equal(t, "afternoon", slot)

	slot, ok = FirstFreeSlot(offered, models.SlotSet{Morning: true, Afternoon: true})
	require.True(t, ok)
	assert.Equal(t, "evening", slot)

	_, ok = FirstFreeSlot(offered, models.SlotSet{Morning: true, Afternoon: true, Evening: true})
	assert.False(t, ok)
}

func TestClosestAvailableDate(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true}},
		{Day: "Wednesday", Slots: models.SlotSet{Morning: true}},
	})

	// 2026-03-03 is a Tuesday; the next open weekday is Wednesday the 4th.
	tuesday := day(2026, time.March, 3)
	got := ClosestAvailableDate(tuesday, weekly, Occupancy{})
	assert.Equal(t, day(2026, time.March, 4), got)

	// With Wednesday fully booked the scan continues to Monday the 9th.
	occ := Occupancy{DateKey(day(2026, time.March, 4)): {Morning: true}}
	got = ClosestAvailableDate(tuesday, weekly, occ)
	assert.Equal(t, day(2026, time.March, 9), got)
}

func TestClosestAvailableDateStartsToday(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Tuesday", Slots: models.SlotSet{Evening: true}},
	})

	tuesday := day(2026, time.March, 3)
	assert.Equal(t, tuesday, ClosestAvailableDate(tuesday, weekly, Occupancy{}))
}

func TestClosestAvailableDateFallsBackToToday(t *testing.T) {
	// No availability at all: nothing within the horizon, degenerate fallback.
	today := day(2026, time.March, 3)
	got := ClosestAvailableDate(today, Weekly{}, Occupancy{})
	assert.Equal(t, today, got)
}

func TestSummaries(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true, Afternoon: true}},
	})
	monday := day(2026, time.March, 2)
	occ := Accumulate([]models.Booking{
		bookingOn(monday, models.SlotSet{Morning: true}),
		bookingOn(monday, models.SlotSet{Afternoon: true}),
	})

	summaries := Summaries(weekly, occ)
	require.Len(t, summaries, 1)
	assert.Equal(t, models.SlotSummary{
		Date:          "2026-03-02",
		Morning:       true,
		Afternoon:     true,
		Evening:       false,
		IsFullyBooked: true, // evening was never offered, so two slots fill the day
	}, summaries[0])
}

func TestSummariesEmptySteadyState(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true}},
	})

	assert.Empty(t, Summaries(weekly, Occupancy{}))
}

func TestMarkers(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	})
	today := day(2026, time.March, 2) // a Monday
	occ := Occupancy{
		DateKey(today): {Morning: true},
	}

	markers := Markers(today, weekly, occ)

	monday := markers[DateKey(today)]
	assert.Equal(t, []string{"morning"}, monday.Dots)
	assert.False(t, monday.Disabled, "partially booked dates stay selectable")

	tuesday := markers[DateKey(today.AddDate(0, 0, 1))]
	assert.Empty(t, tuesday.Dots)
	assert.True(t, tuesday.Disabled, "unavailable weekdays are disabled")

	nextMonday := markers[DateKey(today.AddDate(0, 0, 7))]
	assert.False(t, nextMonday.Disabled)

	_, beyondWindow := markers[DateKey(today.AddDate(0, 4, 0))]
	assert.False(t, beyondWindow, "markers stop at the booking window")
}

func TestMarkersFullyBookedDateDisabled(t *testing.T) {
	weekly := WeeklyFromDays([]models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true, Afternoon: true}},
	})
	today := day(2026, time.March, 2)
	occ := Occupancy{DateKey(today): {Morning: true, Afternoon: true}}

	markers := Markers(today, weekly, occ)
	assert.True(t, markers[DateKey(today)].Disabled)
	assert.Equal(t, []string{"morning", "afternoon"}, markers[DateKey(today)].Dots)
}
