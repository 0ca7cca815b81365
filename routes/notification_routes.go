package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelink/carelink_backend/controllers"
	"github.com/carelink/carelink_backend/middleware"
)

// RegisterNotificationRoutes registers all notification-related routes
func RegisterNotificationRoutes(e *echo.Echo, db *mongo.Client) {
	notificationController := controllers.NewNotificationController(db)

	notificationGroup := e.Group("/api/notifications")
	notificationGroup.Use(middleware.JWTMiddleware())

	notificationGroup.GET("", notificationController.GetNotifications)
	notificationGroup.GET("/unread-count", notificationController.GetUnreadCount)
	notificationGroup.PATCH("/:id/seen", notificationController.MarkSeen)
}
