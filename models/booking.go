package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses. The set is closed: a booking is created as pending and
// only ever moves between these four values.
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ValidBookingStatus reports whether s is one of the declared booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// ValidStatusTransition reports whether a booking may move from one status to
// another: pending -> accepted/cancelled, accepted -> completed/cancelled.
// Completed and cancelled are terminal.
func ValidStatusTransition(from, to string) bool {
	switch from {
	case BookingStatusPending:
		return to == BookingStatusAccepted || to == BookingStatusCancelled
	case BookingStatusAccepted:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	}
	return false
}

// SlotSet holds the three bookable day parts. Zero or more may be set.
type SlotSet struct {
	Morning   bool `json:"morning" bson:"morning"`
	Afternoon bool `json:"afternoon" bson:"afternoon"`
	Evening   bool `json:"evening" bson:"evening"`
}

// Any reports whether at least one slot is set.
func (s SlotSet) Any() bool {
	return s.Morning || s.Afternoon || s.Evening
}

// Union returns the slot-wise OR of two slot sets.
func (s SlotSet) Union(o SlotSet) SlotSet {
	return SlotSet{
		Morning:   s.Morning || o.Morning,
		Afternoon: s.Afternoon || o.Afternoon,
		Evening:   s.Evening || o.Evening,
	}
}

// Overlaps reports whether both sets claim at least one common slot.
func (s SlotSet) Overlaps(o SlotSet) bool {
	return (s.Morning && o.Morning) || (s.Afternoon && o.Afternoon) || (s.Evening && o.Evening)
}

// Booking model
type Booking struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Reference      string             `json:"reference" bson:"reference"`
	SeniorID       primitive.ObjectID `json:"seniorId" bson:"seniorId"`
	CaregiverID    primitive.ObjectID `json:"caregiverId" bson:"caregiverId"`
	Date           time.Time          `json:"date" bson:"date"` // normalized to midnight; only the day matters
	Slots          SlotSet            `json:"slots" bson:"slots"`
	Status         string             `json:"status" bson:"status"`
	AdditionalInfo string             `json:"additionalInfo" bson:"additionalInfo"`
	Location       *GeoPoint          `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// GeoPoint is a latitude/longitude pair stamped on a booking at creation.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// BookingRequest model
type BookingRequest struct {
	SeniorID       string    `json:"seniorId"`
	CaregiverID    string    `json:"caregiverId" validate:"required"`
	Date           time.Time `json:"date" validate:"required"`
	Slots          SlotSet   `json:"slots"`
	AdditionalInfo string    `json:"additionalInfo"`
	Location       *GeoPoint `json:"location"`
}

// BookingStatusUpdateRequest model for the body-driven status update endpoint
type BookingStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// SlotSummary is the per-date occupancy view returned by the slots endpoint:
// which day parts are taken and whether the date is fully booked relative to
// the caregiver's weekly availability.
type SlotSummary struct {
	Date          string `json:"date"`
	Morning       bool   `json:"morning"`
	Afternoon     bool   `json:"afternoon"`
	Evening       bool   `json:"evening"`
	IsFullyBooked bool   `json:"isFullyBooked"`
}

// BookingResponse model
type BookingResponse struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Data    *Booking `json:"data,omitempty"`
}

// BookingsResponse model for multiple bookings
type BookingsResponse struct {
	Status  int       `json:"status"`
	Message string    `json:"message"`
	Data    []Booking `json:"data"`
}

// BookingDetails pairs a booking with the senior's profile fields the
// caregiver-facing agenda needs.
type BookingDetails struct {
	Booking Booking       `json:"booking"`
	Senior  SeniorProfile `json:"senior"`
}
