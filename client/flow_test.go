package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/schedule"
)

var allWeek = []models.AvailabilityDay{
	{Day: "Sunday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Monday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Tuesday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Wednesday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Thursday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Friday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
	{Day: "Saturday", Slots: models.SlotSet{Morning: true, Afternoon: true, Evening: true}},
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  status,
		"message": "ok",
		"data":    data,
	})
}

func bookingServer(t *testing.T, availability []models.AvailabilityDay, bookings []models.Booking) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/availability/cg1":
			if availability == nil {
				respond(w, http.StatusNotFound, nil)
				return
			}
			respond(w, http.StatusOK, models.Availability{Availability: availability})
		case r.Method == http.MethodGet && r.URL.Path == "/api/bookings/caregiver/cg1":
			assert.Equal(t, models.BookingStatusAccepted, r.URL.Query().Get("status"))
			respond(w, http.StatusOK, bookings)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}))
}

type stubGeocoder struct {
	point *models.GeoPoint
	err   error
	calls int
}

func (g *stubGeocoder) Resolve(ctx context.Context, address string) (*models.GeoPoint, error) {
	g.calls++
	return g.point, g.err
}

func TestLoadCalendarEmptyBookingsLeavesEveryDayOpen(t *testing.T) {
	server := bookingServer(t, allWeek, []models.Booking{})
	defer server.Close()

	flow := NewBookingFlow(New(server.URL, "token"), &stubGeocoder{})
	cal, err := flow.LoadCalendar(context.Background(), "cg1")
	require.NoError(t, err)

	today := schedule.Midnight(time.Now())
	assert.Equal(t, today, cal.DefaultDate, "with no occupancy the closest open date is today")

	marker := cal.Markers[schedule.DateKey(today)]
	assert.Empty(t, marker.Dots)
	assert.False(t, marker.Disabled)
}

func TestLoadCalendarReflectsOccupancy(t *testing.T) {
	tomorrow := schedule.Midnight(time.Now()).AddDate(0, 0, 1)
	server := bookingServer(t, allWeek, []models.Booking{
		{Date: tomorrow, Slots: models.SlotSet{Morning: true}, Status: models.BookingStatusAccepted},
	})
	defer server.Close()

	flow := NewBookingFlow(New(server.URL, "token"), &stubGeocoder{})
	cal, err := flow.LoadCalendar(context.Background(), "cg1")
	require.NoError(t, err)

	marker := cal.Markers[schedule.DateKey(tomorrow)]
	assert.Equal(t, []string{"morning"}, marker.Dots)
	assert.False(t, marker.Disabled, "partially booked dates remain selectable")

	selection := cal.Select(tomorrow)
	assert.Equal(t, "afternoon", selection.Suggested)
	assert.True(t, selection.Occupied.Morning)
	assert.False(t, selection.Disabled)
}

func TestLoadCalendarNoPublishedAvailability(t *testing.T) {
	server := bookingServer(t, nil, []models.Booking{})
	defer server.Close()

	flow := NewBookingFlow(New(server.URL, "token"), &stubGeocoder{})
	cal, err := flow.LoadCalendar(context.Background(), "cg1")
	require.NoError(t, err, "a missing schedule is not an error")

	today := schedule.Midnight(time.Now())
	assert.Equal(t, today, cal.DefaultDate, "degenerate fallback is today")
	assert.True(t, cal.Markers[schedule.DateKey(today)].Disabled)
	assert.True(t, cal.Select(today).Disabled)
}

func TestSubmitValidation(t *testing.T) {
	flow := NewBookingFlow(New("http://unused.invalid", "token"), &stubGeocoder{})

	_, err := flow.Submit(context.Background(), Submission{
		Slots: models.SlotSet{Morning: true},
	})
	assert.EqualError(t, err, "a date must be selected")

	_, err = flow.Submit(context.Background(), Submission{
		Date: time.Now(),
	})
	assert.EqualError(t, err, "at least one slot must be selected")
}

func TestSubmitAbortsOnGeocodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the API when geocoding fails")
	}))
	defer server.Close()

	geocoder := &stubGeocoder{err: errors.New("upstream down")}
	flow := NewBookingFlow(New(server.URL, "token"), geocoder)

	_, err := flow.Submit(context.Background(), Submission{
		SeniorID:    "s1",
		CaregiverID: "cg1",
		Date:        time.Now(),
		Slots:       models.SlotSet{Morning: true},
		Address:     "12 Main St",
	})
	assert.ErrorContains(t, err, "failed to resolve address")
	assert.Equal(t, 1, geocoder.calls)
}

func TestSubmitPostsBookingWithLocation(t *testing.T) {
	var received models.BookingRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/bookings", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		respond(w, http.StatusCreated, models.Booking{Status: models.BookingStatusPending, Reference: "BK-1234ABCD"})
	}))
	defer server.Close()

	geocoder := &stubGeocoder{point: &models.GeoPoint{Latitude: 33.9, Longitude: 35.5}}
	flow := NewBookingFlow(New(server.URL, "token"), geocoder)

	booking, err := flow.Submit(context.Background(), Submission{
		SeniorID:       "60f1b2c3d4e5f6a7b8c9d0e1",
		CaregiverID:    "60f1b2c3d4e5f6a7b8c9d0e2",
		Date:           time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		Slots:          models.SlotSet{Morning: true},
		AdditionalInfo: "Needs help with medication",
		Address:        "12 Main St, Beirut",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, "60f1b2c3d4e5f6a7b8c9d0e2", received.CaregiverID)
	require.NotNil(t, received.Location)
	assert.InDelta(t, 33.9, received.Location.Latitude, 1e-9)
}
