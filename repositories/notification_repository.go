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

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Client) *NotificationRepository {
	return &NotificationRepository{
		collection: config.GetCollection(db, "notifications"),
	}
}

// Save writes one booking-event notification. Create and delete events
// append a fresh row; update events overwrite the existing update row for the
// same user and booking, so only the latest status change survives.
func (r *NotificationRepository) Save(ctx context.Context, notification models.Notification) error {
	if notification.Date.IsZero() {
		notification.Date = time.Now()
	}

	if notification.Type == models.NotificationTypeUpdate {
		filter := bson.M{
			"userId":    notification.UserID,
			"bookingId": notification.BookingID,
			"type":      models.NotificationTypeUpdate,
		}
		replacement := bson.M{
			"userId":    notification.UserID,
			"bookingId": notification.BookingID,
			"message":   notification.Message,
			"type":      notification.Type,
			"seen":      false,
			"date":      notification.Date,
		}
		_, err := r.collection.ReplaceOne(ctx, filter, replacement, options.Replace().SetUpsert(true))
		return err
	}

	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnseen returns the user's badge count.
func (r *NotificationRepository) CountUnseen(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"userId": userID, "seen": false})
}

// MarkSeen flags one notification as read. Scoped to the owner so a user
// cannot dismiss someone else's notification.
func (r *NotificationRepository) MarkSeen(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
