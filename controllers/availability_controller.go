package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/repositories"
)

// scheduleStore is the slice of the availability repository the controller
// uses.
type scheduleStore interface {
	Upsert(ctx context.Context, caregiverID primitive.ObjectID, days []models.AvailabilityDay) (*models.Availability, bool, error)
	GetByCaregiver(ctx context.Context, caregiverID primitive.ObjectID) (*models.Availability, error)
}

// AvailabilityController handles the weekly recurring schedules caregivers
// publish.
type AvailabilityController struct {
	avail scheduleStore
}

func NewAvailabilityController(db *mongo.Client) *AvailabilityController {
	return &AvailabilityController{
		avail: repositories.NewAvailabilityRepository(db),
	}
}

// UpsertAvailability replaces the caregiver's whole weekly schedule with the
// one supplied. Last write wins; individual days are never merged. Returns
// 201 when a schedule record was created, 200 when an existing one was
// replaced.
func (ac *AvailabilityController) UpsertAvailability(c echo.Context) error {
	var request models.AvailabilityRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid availability payload",
		})
	}

	caregiverID, err := primitive.ObjectIDFromHex(request.CaregiverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid caregiver ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	availability, created, err := ac.avail.Upsert(ctx, caregiverID, request.Availability)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save availability",
		})
	}

	status := http.StatusOK
	message := "Availability updated successfully"
	if created {
		status = http.StatusCreated
		message = "Availability created successfully"
	}

	return c.JSON(status, models.AvailabilityResponse{
		Status:  status,
		Message: message,
		Data:    availability,
	})
}

// GetAvailability returns the caregiver's weekly schedule or 404 when none
// has been published yet. Callers treat absent days as unavailable.
func (ac *AvailabilityController) GetAvailability(c echo.Context) error {
	caregiverID, err := primitive.ObjectIDFromHex(c.Param("caregiverId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid caregiver ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	availability, err := ac.avail.GetByCaregiver(ctx, caregiverID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Availability not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving availability",
		})
	}

	return c.JSON(http.StatusOK, models.AvailabilityResponse{
		Status:  http.StatusOK,
		Message: "Availability retrieved successfully",
		Data:    availability,
	})
}
