package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityDay maps one weekday name ("Sunday".."Saturday") to the day
// parts a caregiver offers on that weekday. Days absent from the list are
// unavailable.
type AvailabilityDay struct {
	Day   string  `json:"day" bson:"day" validate:"required,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Slots SlotSet `json:"slots" bson:"slots"`
}

// Availability is a caregiver's weekly recurring schedule. Updates replace
// the whole list: last write wins, no merging of individual days.
type Availability struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CaregiverID  primitive.ObjectID `json:"caregiverId" bson:"caregiverId"`
	Availability []AvailabilityDay  `json:"availability" bson:"availability"`
}

// AvailabilityRequest model
type AvailabilityRequest struct {
	CaregiverID  string            `json:"caregiverId" validate:"required"`
	Availability []AvailabilityDay `json:"availability" validate:"required,dive"`
}

// AvailabilityResponse model
type AvailabilityResponse struct {
	Status  int           `json:"status"`
	Message string        `json:"message"`
	Data    *Availability `json:"data,omitempty"`
}
