package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types mirror the booking lifecycle event that produced the row.
const (
	NotificationTypeCreate = "create"
	NotificationTypeUpdate = "update"
	NotificationTypeDelete = "delete"
)

// Notification is one row of the booking-event side channel. Create and
// delete events append; update events overwrite the previous update row for
// the same user and booking, so only the latest status change survives.
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	BookingID primitive.ObjectID `json:"bookingId" bson:"bookingId"`
	Message   string             `json:"message" bson:"message"`
	Type      string             `json:"type" bson:"type"`
	Seen      bool               `json:"seen" bson:"seen"`
	Date      time.Time          `json:"date" bson:"date"`
}

// NotificationsResponse model
type NotificationsResponse struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    []Notification `json:"data"`
}
