package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/schedule"
)

// Geocoder resolves a free-text address to coordinates. Satisfied by
// services.GeocodingService.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (*models.GeoPoint, error)
}

// BookingFlow drives the caregiver booking screen: load the calendar, pick a
// date and slot, submit a pending booking.
type BookingFlow struct {
	api      *Client
	geocoder Geocoder
}

func NewBookingFlow(api *Client, geocoder Geocoder) *BookingFlow {
	return &BookingFlow{api: api, geocoder: geocoder}
}

// Calendar is the reconciled view the booking screen renders.
type Calendar struct {
	Weekly      schedule.Weekly
	Occupancy   schedule.Occupancy
	DefaultDate time.Time
	Markers     map[string]schedule.DayMarker
}

// LoadCalendar fetches the caregiver's availability and accepted bookings in
// parallel, then reconciles them locally. A caregiver without a published
// schedule yields a calendar where every date is disabled.
func (f *BookingFlow) LoadCalendar(ctx context.Context, caregiverID string) (*Calendar, error) {
	var (
		wg           sync.WaitGroup
		availability *models.Availability
		availErr     error
		bookings     []models.Booking
		bookingsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		availability, availErr = f.api.Availability(ctx, caregiverID)
	}()
	go func() {
		defer wg.Done()
		bookings, bookingsErr = f.api.CaregiverBookings(ctx, caregiverID, models.BookingStatusAccepted)
	}()
	wg.Wait()

	weekly := schedule.Weekly{}
	if availErr == nil {
		weekly = schedule.WeeklyFromDays(availability.Availability)
	} else if !errors.Is(availErr, ErrNotFound) {
		return nil, fmt.Errorf("failed to load availability: %w", availErr)
	}
	if bookingsErr != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", bookingsErr)
	}

	occupancy := schedule.Accumulate(bookings)
	today := time.Now()

	return &Calendar{
		Weekly:      weekly,
		Occupancy:   occupancy,
		DefaultDate: schedule.ClosestAvailableDate(today, weekly, occupancy),
		Markers:     schedule.Markers(today, weekly, occupancy),
	}, nil
}

// DaySelection is the state of one selected date: which slots the caregiver
// offers, which are taken, and the pre-selected free slot.
type DaySelection struct {
	Date      time.Time
	Offered   models.SlotSet
	Occupied  models.SlotSet
	Suggested string
	Disabled  bool
}

// Select derives the slot state for a chosen date. The suggested slot is the
// first free one in morning, afternoon, evening order; occupied or unoffered
// slots stay disabled in the UI.
func (cal *Calendar) Select(date time.Time) DaySelection {
	offered := cal.Weekly.SlotsOn(date)
	occupied := cal.Occupancy[schedule.DateKey(date)]
	suggested, ok := schedule.FirstFreeSlot(offered, occupied)

	return DaySelection{
		Date:      schedule.Midnight(date),
		Offered:   offered,
		Occupied:  occupied,
		Suggested: suggested,
		Disabled:  !ok,
	}
}

// Submission is a booking request before geocoding.
type Submission struct {
	SeniorID       string
	CaregiverID    string
	Date           time.Time
	Slots          models.SlotSet
	AdditionalInfo string
	Address        string
}

// Submit validates, geocodes the senior's address, and posts the booking.
// A geocoding failure aborts the submission; nothing is sent.
func (f *BookingFlow) Submit(ctx context.Context, sub Submission) (*models.Booking, error) {
	if sub.Date.IsZero() {
		return nil, errors.New("a date must be selected")
	}
	if !sub.Slots.Any() {
		return nil, errors.New("at least one slot must be selected")
	}

	location, err := f.geocoder.Resolve(ctx, sub.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}

	return f.api.CreateBooking(ctx, models.BookingRequest{
		SeniorID:       sub.SeniorID,
		CaregiverID:    sub.CaregiverID,
		Date:           sub.Date,
		Slots:          sub.Slots,
		AdditionalInfo: sub.AdditionalInfo,
		Location:       location,
	})
}
