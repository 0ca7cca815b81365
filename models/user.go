// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types. The core only ever branches on this tag; the rest of the
// profile is owned by the account service.
const (
	UserTypeSenior    = "senior"
	UserTypeCaregiver = "caregiver"
)

// User model. Seniors and caregivers share one collection discriminated by
// UserType; caregiver-specific fields live under CaregiverInfo.
type User struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	FullName      string             `json:"fullName" bson:"fullName"`
	UserType      string             `json:"userType" bson:"userType"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePic    string             `json:"profilePic,omitempty" bson:"profilePic,omitempty"`
	Address       *Address           `json:"address,omitempty" bson:"address,omitempty"`
	CaregiverInfo *CaregiverInfo     `json:"caregiverInfo,omitempty" bson:"caregiverInfo,omitempty"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Address model
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city" bson:"city"`
	Country string `json:"country" bson:"country"`
}

// CaregiverInfo holds the caregiver-variant payload of the user record.
type CaregiverInfo struct {
	Experience int      `json:"experience" bson:"experience"` // years
	HourlyRate float64  `json:"hourlyRate" bson:"hourlyRate"`
	Services   []string `json:"services,omitempty" bson:"services,omitempty"`
}

// SeniorProfile is the trimmed senior view joined onto caregiver-facing
// booking listings.
type SeniorProfile struct {
	ID         primitive.ObjectID `json:"id"`
	FullName   string             `json:"fullName"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	ProfilePic string             `json:"profilePic"`
	Address    *Address           `json:"address,omitempty"`
}

// Response is the shared API envelope
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
