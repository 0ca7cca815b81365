package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelink/carelink_backend/controllers"
	"github.com/carelink/carelink_backend/middleware"
)

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(e *echo.Echo, db *mongo.Client, cache *redis.Client) {
	bookingController := controllers.NewBookingController(db, cache)

	bookingGroup := e.Group("/api/bookings")
	bookingGroup.Use(middleware.JWTMiddleware())

	bookingGroup.POST("", bookingController.CreateBooking)
	bookingGroup.GET("/caregiver/:caregiverId", bookingController.GetCaregiverBookings)
	bookingGroup.GET("/senior/:seniorId", bookingController.GetSeniorBookings)
	bookingGroup.GET("/caregiver/slots/:caregiverId/:status", bookingController.GetCaregiverSlots)
	bookingGroup.GET("/caregiver/:caregiverId/details", bookingController.GetCaregiverBookingDetails)
	bookingGroup.PATCH("/changeStatus/:bookingId", bookingController.ChangeStatus)
	bookingGroup.PUT("/:bookingId/status", bookingController.UpdateBookingStatus)
	bookingGroup.DELETE("/:bookingId", bookingController.DeleteBooking)
}
