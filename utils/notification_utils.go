package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/gomail.v2"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/pkg/logger"
	"github.com/carelink/carelink_backend/repositories"
)

// NotifyBookingEvent records a booking-lifecycle notification for one user
// and sends a best-effort email copy. The email never blocks or fails the
// calling request; the persisted row is the source of truth.
func NotifyBookingEvent(db *mongo.Client, userID, bookingID primitive.ObjectID, message, eventType string) error {
	repo := repositories.NewNotificationRepository(db)
	err := repo.Save(context.Background(), models.Notification{
		UserID:    userID,
		BookingID: bookingID,
		Message:   message,
		Type:      eventType,
		Seen:      false,
		Date:      time.Now(),
	})
	if err != nil {
		return err
	}

	go emailBookingEvent(db, userID, message)
	return nil
}

// emailBookingEvent sends the notification text by email when SMTP is
// configured. Failures are logged and dropped.
func emailBookingEvent(db *mongo.Client, userID primitive.ObjectID, message string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	if smtpHost == "" || smtpUser == "" {
		return
	}
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := repositories.NewUserRepository(db).FindByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", smtpUser)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", "CareLink booking update")
	m.SetBody("text/plain", fmt.Sprintf("Dear %s,\n\n%s\n\nBest regards,\nCareLink", user.FullName, message))

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	if err := d.DialAndSend(m); err != nil {
		logger.Log.Warnf("Failed to send notification email to %s: %v", userID.Hex(), err)
	}
}
