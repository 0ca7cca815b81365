package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelink/carelink_backend/controllers"
	"github.com/carelink/carelink_backend/middleware"
	"github.com/carelink/carelink_backend/models"
)

// RegisterAvailabilityRoutes registers all availability-related routes
func RegisterAvailabilityRoutes(e *echo.Echo, db *mongo.Client) {
	availabilityController := controllers.NewAvailabilityController(db)

	availabilityGroup := e.Group("/api/availability")
	availabilityGroup.Use(middleware.JWTMiddleware())

	// Only caregivers publish schedules; anyone authenticated can read them.
	availabilityGroup.POST("", availabilityController.UpsertAvailability,
		middleware.RequireUserType(models.UserTypeCaregiver))
	availabilityGroup.GET("/:caregiverId", availabilityController.GetAvailability)
}
