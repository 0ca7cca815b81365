package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carelink/carelink_backend/config"
	"github.com/carelink/carelink_backend/models"
)

type AvailabilityRepository struct {
	collection *mongo.Collection
}

func NewAvailabilityRepository(db *mongo.Client) *AvailabilityRepository {
	return &AvailabilityRepository{
		collection: config.GetCollection(db, "availabilities"),
	}
}

// Upsert replaces the caregiver's whole weekly schedule with the supplied one
// (last write wins, no per-day merge) and reports whether a new record was
// created.
func (r *AvailabilityRepository) Upsert(ctx context.Context, caregiverID primitive.ObjectID, days []models.AvailabilityDay) (*models.Availability, bool, error) {
	filter := bson.M{"caregiverId": caregiverID}
	result, err := r.collection.UpdateOne(ctx, filter, availabilityUpsertUpdate(caregiverID, days), options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, err
	}

	availability, err := r.GetByCaregiver(ctx, caregiverID)
	if err != nil {
		return nil, false, err
	}
	return availability, result.UpsertedCount > 0, nil
}

// availabilityUpsertUpdate sets the whole availability array in one write.
// There is no per-day merge operator here on purpose: the second upsert for
// a caregiver must leave only its own array behind.
func availabilityUpsertUpdate(caregiverID primitive.ObjectID, days []models.AvailabilityDay) bson.M {
	return bson.M{
		"$set":         bson.M{"availability": days},
		"$setOnInsert": bson.M{"caregiverId": caregiverID},
	}
}

// GetByCaregiver returns the caregiver's schedule or ErrNotFound.
func (r *AvailabilityRepository) GetByCaregiver(ctx context.Context, caregiverID primitive.ObjectID) (*models.Availability, error) {
	var availability models.Availability
	err := r.collection.FindOne(ctx, bson.M{"caregiverId": caregiverID}).Decode(&availability)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &availability, nil
}
