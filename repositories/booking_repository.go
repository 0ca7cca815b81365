package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelink/carelink_backend/config"
	"github.com/carelink/carelink_backend/models"
)

type BookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Client) *BookingRepository {
	return &BookingRepository{
		collection: config.GetCollection(db, "bookings"),
	}
}

// Insert persists a new booking.
func (r *BookingRepository) Insert(ctx context.Context, booking *models.Booking) error {
	_, err := r.collection.InsertOne(ctx, booking)
	return err
}

// FindByID returns the booking or ErrNotFound.
func (r *BookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByCaregiver returns the caregiver's bookings, optionally filtered by
// status. An empty result is an empty slice, never an error.
func (r *BookingRepository) ListByCaregiver(ctx context.Context, caregiverID primitive.ObjectID, status string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"caregiverId": caregiverID}, status)
}

// ListBySenior returns the senior's bookings, optionally filtered by status.
func (r *BookingRepository) ListBySenior(ctx context.Context, seniorID primitive.ObjectID, status string) ([]models.Booking, error) {
	return r.list(ctx, bson.M{"seniorId": seniorID}, status)
}

// ListByCaregiverInWindow returns the caregiver's bookings with the given
// status whose date falls inside [from, to). The slots endpoint uses this to
// bound its scan to the rolling booking window.
func (r *BookingRepository) ListByCaregiverInWindow(ctx context.Context, caregiverID primitive.ObjectID, status string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"caregiverId": caregiverID,
		"date":        bson.M{"$gte": from, "$lt": to},
	}
	return r.list(ctx, filter, status)
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M, status string) ([]models.Booking, error) {
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UpdateStatus overwrites the booking's status and returns the updated
// record, or ErrNotFound.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Booking, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// HasAcceptedSlotConflict reports whether another accepted booking for the
// same caregiver and date already claims any of the given slots. The check
// runs at accept time, before the status write.
func (r *BookingRepository) HasAcceptedSlotConflict(ctx context.Context, caregiverID primitive.ObjectID, date time.Time, slots models.SlotSet, exclude primitive.ObjectID) (bool, error) {
	filter := acceptedSlotConflictFilter(caregiverID, date, slots, exclude)
	if filter == nil {
		return false, nil
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// acceptedSlotConflictFilter matches accepted bookings, other than the one
// being accepted, that hold any of the requested slots on the same caregiver
// and date. A request with no slots matches nothing and yields nil.
func acceptedSlotConflictFilter(caregiverID primitive.ObjectID, date time.Time, slots models.SlotSet, exclude primitive.ObjectID) bson.M {
	slotClauses := []bson.M{}
	if slots.Morning {
		slotClauses = append(slotClauses, bson.M{"slots.morning": true})
	}
	if slots.Afternoon {
		slotClauses = append(slotClauses, bson.M{"slots.afternoon": true})
	}
	if slots.Evening {
		slotClauses = append(slotClauses, bson.M{"slots.evening": true})
	}
	if len(slotClauses) == 0 {
		return nil
	}

	return bson.M{
		"_id":         bson.M{"$ne": exclude},
		"caregiverId": caregiverID,
		"date":        date,
		"status":      models.BookingStatusAccepted,
		"$or":         slotClauses,
	}
}

// Delete removes the booking, or returns ErrNotFound.
func (r *BookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
