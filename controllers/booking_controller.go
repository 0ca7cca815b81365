package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carelink/carelink_backend/middleware"
	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/pkg/logger"
	"github.com/carelink/carelink_backend/repositories"
	"github.com/carelink/carelink_backend/schedule"
	"github.com/carelink/carelink_backend/utils"
)

const slotCacheTTL = 30 * time.Second

// bookingStore is the slice of the booking repository the controller uses.
type bookingStore interface {
	Insert(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	ListByCaregiver(ctx context.Context, caregiverID primitive.ObjectID, status string) ([]models.Booking, error)
	ListBySenior(ctx context.Context, seniorID primitive.ObjectID, status string) ([]models.Booking, error)
	ListByCaregiverInWindow(ctx context.Context, caregiverID primitive.ObjectID, status string, from, to time.Time) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Booking, error)
	HasAcceptedSlotConflict(ctx context.Context, caregiverID primitive.ObjectID, date time.Time, slots models.SlotSet, exclude primitive.ObjectID) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type availabilityReader interface {
	GetByCaregiver(ctx context.Context, caregiverID primitive.ObjectID) (*models.Availability, error)
}

type userReader interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindCaregiver(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type notifyFunc func(db *mongo.Client, userID, bookingID primitive.ObjectID, message, eventType string) error

// BookingController handles booking-related API endpoints
type BookingController struct {
	db       *mongo.Client
	cache    *redis.Client
	bookings bookingStore
	avail    availabilityReader
	users    userReader
	notify   notifyFunc
	strict   bool
}

// NewBookingController creates a new booking controller. Strict booking
// rules (transition legality and accepted-slot exclusivity) are off by
// default for compatibility with existing clients; STRICT_BOOKING_RULES
// turns them on.
func NewBookingController(db *mongo.Client, cache *redis.Client) *BookingController {
	strict := os.Getenv("STRICT_BOOKING_RULES") == "true" || os.Getenv("STRICT_BOOKING_RULES") == "1"
	return &BookingController{
		db:       db,
		cache:    cache,
		bookings: repositories.NewBookingRepository(db),
		avail:    repositories.NewAvailabilityRepository(db),
		users:    repositories.NewUserRepository(db),
		notify:   utils.NotifyBookingEvent,
		strict:   strict,
	}
}

// CreateBooking handles the creation of a new booking. Every booking starts
// out pending regardless of what the client sends.
func (bc *BookingController) CreateBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	var request models.BookingRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request",
		})
	}
	if err := c.Validate(&request); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Missing required booking fields",
		})
	}
	if !request.Slots.Any() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "At least one slot must be selected",
		})
	}

	// The senior id defaults to the authenticated requester.
	seniorHex := request.SeniorID
	if seniorHex == "" {
		seniorHex = claims.UserID
	}
	seniorID, err := primitive.ObjectIDFromHex(seniorHex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid senior ID",
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

	if _, err := bc.users.FindCaregiver(ctx, caregiverID); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Caregiver not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding caregiver",
		})
	}

	additionalInfo := request.AdditionalInfo
	if additionalInfo == "" {
		additionalInfo = "None"
	}

	now := time.Now()
	booking := models.Booking{
		ID:             primitive.NewObjectID(),
		Reference:      newBookingReference(),
		SeniorID:       seniorID,
		CaregiverID:    caregiverID,
		Date:           schedule.Midnight(request.Date.UTC()),
		Slots:          request.Slots,
		Status:         models.BookingStatusPending,
		AdditionalInfo: additionalInfo,
		Location:       request.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := bc.bookings.Insert(ctx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create booking",
		})
	}

	message := fmt.Sprintf("New booking request %s for %s", booking.Reference, booking.Date.Format("2006-01-02"))
	if err := bc.notify(bc.db, caregiverID, booking.ID, message, models.NotificationTypeCreate); err != nil {
		logger.Log.Warnf("Failed to save create notification for booking %s: %v", booking.ID.Hex(), err)
	}

	bc.invalidateSlotCache(ctx, caregiverID)

	return c.JSON(http.StatusCreated, models.BookingResponse{
		Status:  http.StatusCreated,
		Message: "Booking created successfully",
		Data:    &booking,
	})
}

// GetCaregiverBookings lists a caregiver's bookings, optionally filtered by
// ?status=. Finding nothing is a 200 with an empty array, never an error.
func (bc *BookingController) GetCaregiverBookings(c echo.Context) error {
	caregiverID, err := primitive.ObjectIDFromHex(c.Param("caregiverId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid caregiver ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := bc.bookings.ListByCaregiver(ctx, caregiverID, c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving bookings",
		})
	}

	return c.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetSeniorBookings lists a senior's bookings, optionally filtered by ?status=.
func (bc *BookingController) GetSeniorBookings(c echo.Context) error {
	seniorID, err := primitive.ObjectIDFromHex(c.Param("seniorId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid senior ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := bc.bookings.ListBySenior(ctx, seniorID, c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving bookings",
		})
	}

	return c.JSON(http.StatusOK, models.BookingsResponse{
		Status:  http.StatusOK,
		Message: "Bookings retrieved successfully",
		Data:    bookings,
	})
}

// GetCaregiverSlots returns the per-date slot occupancy view for a caregiver
// within the rolling booking window: which day parts the given-status
// bookings consume and whether each date is fully booked relative to the
// caregiver's weekly availability.
func (bc *BookingController) GetCaregiverSlots(c echo.Context) error {
	caregiverID, err := primitive.ObjectIDFromHex(c.Param("caregiverId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid caregiver ID",
		})
	}
	status := c.Param("status")
	if !models.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid status. Use 'pending', 'accepted', 'cancelled', or 'completed'",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cached, ok := bc.cachedSlots(ctx, caregiverID, status); ok {
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Slots retrieved successfully",
			Data:    cached,
		})
	}

	// A caregiver without a schedule record offers nothing; every occupied
	// date then reads as fully booked.
	weekly := schedule.Weekly{}
	availability, err := bc.avail.GetByCaregiver(ctx, caregiverID)
	if err == nil {
		weekly = schedule.WeeklyFromDays(availability.Availability)
	} else if err != repositories.ErrNotFound {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving availability",
		})
	}

	from, to := schedule.BookingWindow(time.Now())
	bookings, err := bc.bookings.ListByCaregiverInWindow(ctx, caregiverID, status, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving bookings",
		})
	}

	summaries := schedule.Summaries(weekly, schedule.Accumulate(bookings))
	bc.storeSlots(ctx, caregiverID, status, summaries)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Slots retrieved successfully",
		Data:    summaries,
	})
}

// GetCaregiverBookingDetails lists a caregiver's bookings joined with the
// senior profile fields the agenda screen renders.
func (bc *BookingController) GetCaregiverBookingDetails(c echo.Context) error {
	caregiverID, err := primitive.ObjectIDFromHex(c.Param("caregiverId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid caregiver ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := bc.bookings.ListByCaregiver(ctx, caregiverID, c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error retrieving bookings",
		})
	}

	details := make([]models.BookingDetails, 0, len(bookings))
	for _, booking := range bookings {
		var senior models.User
		if found, err := bc.users.FindByID(ctx, booking.SeniorID); err != nil {
			logger.Log.Warnf("Error fetching senior info for booking %s: %v", booking.ID.Hex(), err)
		} else {
			senior = *found
		}

		details = append(details, models.BookingDetails{
			Booking: booking,
			Senior: models.SeniorProfile{
				ID:         senior.ID,
				FullName:   senior.FullName,
				Email:      senior.Email,
				Phone:      senior.Phone,
				ProfilePic: senior.ProfilePic,
				Address:    senior.Address,
			},
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking details retrieved successfully",
		Data:    details,
	})
}

// ChangeStatus updates a booking's status from the ?status= query parameter.
func (bc *BookingController) ChangeStatus(c echo.Context) error {
	return bc.applyStatusChange(c, c.QueryParam("status"))
}

// UpdateBookingStatus updates a booking's status from the request body. It
// behaves identically to ChangeStatus; both endpoints exist for client
// compatibility.
func (bc *BookingController) UpdateBookingStatus(c echo.Context) error {
	var req models.BookingStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	return bc.applyStatusChange(c, req.Status)
}

func (bc *BookingController) applyStatusChange(c echo.Context, status string) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	if !models.ValidBookingStatus(status) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid status. Use 'pending', 'accepted', 'cancelled', or 'completed'",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding booking",
		})
	}

	if bc.strict {
		if !models.ValidStatusTransition(booking.Status, status) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: fmt.Sprintf("Cannot change status from %s to %s", booking.Status, status),
			})
		}
		if status == models.BookingStatusAccepted {
			conflict, err := bc.bookings.HasAcceptedSlotConflict(ctx, booking.CaregiverID, booking.Date, booking.Slots, booking.ID)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, models.Response{
					Status:  http.StatusInternalServerError,
					Message: "Error checking slot availability",
				})
			}
			if conflict {
				return c.JSON(http.StatusConflict, models.Response{
					Status:  http.StatusConflict,
					Message: "Slot already taken by an accepted booking",
				})
			}
		}
	}

	updated, err := bc.bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error updating booking status",
		})
	}

	recipient := notificationRecipient(claims.UserID, updated)
	message := fmt.Sprintf("Booking %s has been %s", updated.Reference, status)
	if err := bc.notify(bc.db, recipient, updated.ID, message, models.NotificationTypeUpdate); err != nil {
		logger.Log.Warnf("Failed to save update notification for booking %s: %v", updated.ID.Hex(), err)
	}

	bc.invalidateSlotCache(ctx, updated.CaregiverID)

	return c.JSON(http.StatusOK, models.BookingResponse{
		Status:  http.StatusOK,
		Message: "Booking status updated successfully",
		Data:    updated,
	})
}

// DeleteBooking removes a booking outright. Deletion is separate from
// cancellation: it erases the record instead of moving it to a terminal
// status.
func (bc *BookingController) DeleteBooking(c echo.Context) error {
	claims := middleware.GetUserFromToken(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Unauthorized",
		})
	}

	bookingID, err := primitive.ObjectIDFromHex(c.Param("bookingId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid booking ID",
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	booking, err := bc.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error finding booking",
		})
	}

	if err := bc.bookings.Delete(ctx, bookingID); err != nil {
		if err == repositories.ErrNotFound {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Booking not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Error deleting booking",
		})
	}

	message := fmt.Sprintf("Booking %s has been removed", booking.Reference)
	if err := bc.notify(bc.db, booking.CaregiverID, booking.ID, message, models.NotificationTypeDelete); err != nil {
		logger.Log.Warnf("Failed to save delete notification for booking %s: %v", booking.ID.Hex(), err)
	}

	bc.invalidateSlotCache(ctx, booking.CaregiverID)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Booking deleted successfully",
		Data: map[string]interface{}{
			"bookingId": bookingID.Hex(),
			"deletedAt": time.Now(),
		},
	})
}

// notificationRecipient picks the party who did not initiate a status
// change: the senior hears about caregiver actions and vice versa.
func notificationRecipient(initiatorID string, booking *models.Booking) primitive.ObjectID {
	if initiatorID == booking.SeniorID.Hex() {
		return booking.CaregiverID
	}
	return booking.SeniorID
}

// newBookingReference returns a short human-facing reference code.
func newBookingReference() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

func slotCacheKey(caregiverID primitive.ObjectID, status string) string {
	return fmt.Sprintf("slots:%s:%s", caregiverID.Hex(), status)
}

func (bc *BookingController) cachedSlots(ctx context.Context, caregiverID primitive.ObjectID, status string) ([]models.SlotSummary, bool) {
	if bc.cache == nil {
		return nil, false
	}
	raw, err := bc.cache.Get(ctx, slotCacheKey(caregiverID, status)).Result()
	if err != nil {
		return nil, false
	}
	var summaries []models.SlotSummary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, false
	}
	return summaries, true
}

func (bc *BookingController) storeSlots(ctx context.Context, caregiverID primitive.ObjectID, status string, summaries []models.SlotSummary) {
	if bc.cache == nil {
		return
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return
	}
	if err := bc.cache.Set(ctx, slotCacheKey(caregiverID, status), raw, slotCacheTTL).Err(); err != nil {
		logger.Log.Debugf("Failed to cache slot summary for %s: %v", caregiverID.Hex(), err)
	}
}

func (bc *BookingController) invalidateSlotCache(ctx context.Context, caregiverID primitive.ObjectID) {
	if bc.cache == nil {
		return
	}
	keys := []string{
		slotCacheKey(caregiverID, models.BookingStatusPending),
		slotCacheKey(caregiverID, models.BookingStatusAccepted),
		slotCacheKey(caregiverID, models.BookingStatusCancelled),
		slotCacheKey(caregiverID, models.BookingStatusCompleted),
	}
	if err := bc.cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Debugf("Failed to invalidate slot cache for %s: %v", caregiverID.Hex(), err)
	}
}
