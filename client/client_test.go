package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink_backend/models"
)

func TestCaregiverBookingsMapsNotFoundToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, nil)
	}))
	defer server.Close()

	bookings, err := New(server.URL, "token").CaregiverBookings(context.Background(), "cg1", models.BookingStatusAccepted)
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestCaregiverBookingsNeverReturnsNilSlice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, nil)
	}))
	defer server.Close()

	bookings, err := New(server.URL, "token").CaregiverBookings(context.Background(), "cg1", "")
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
}

func TestDoSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"status":409,"message":"Booking slot is already taken","data":null}`))
	}))
	defer server.Close()

	_, err := New(server.URL, "token").ChangeStatus(context.Background(), "b1", models.BookingStatusAccepted)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Booking slot is already taken")
}

func TestAvailabilityNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, nil)
	}))
	defer server.Close()

	_, err := New(server.URL, "token").Availability(context.Background(), "cg1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaregiverSlots(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/bookings/caregiver/slots/cg1/accepted", r.URL.Path)
		respond(w, http.StatusOK, []models.SlotSummary{
			{Date: "2026-03-02", Morning: true, IsFullyBooked: false},
		})
	}))
	defer server.Close()

	summaries, err := New(server.URL, "token").CaregiverSlots(context.Background(), "cg1", models.BookingStatusAccepted)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "2026-03-02", summaries[0].Date)
	assert.True(t, summaries[0].Morning)
}
