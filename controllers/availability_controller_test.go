package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/repositories"
)

type fakeScheduleStore struct {
	days    []models.AvailabilityDay
	created bool
}

func (f *fakeScheduleStore) Upsert(ctx context.Context, caregiverID primitive.ObjectID, days []models.AvailabilityDay) (*models.Availability, bool, error) {
	created := f.days == nil
	f.days = days
	f.created = created
	return &models.Availability{CaregiverID: caregiverID, Availability: days}, created, nil
}

func (f *fakeScheduleStore) GetByCaregiver(ctx context.Context, caregiverID primitive.ObjectID) (*models.Availability, error) {
	if f.days == nil {
		return nil, repositories.ErrNotFound
	}
	return &models.Availability{CaregiverID: caregiverID, Availability: f.days}, nil
}

func upsertBody(t *testing.T, caregiverID primitive.ObjectID, days []models.AvailabilityDay) string {
	t.Helper()
	raw, err := json.Marshal(models.AvailabilityRequest{
		CaregiverID:  caregiverID.Hex(),
		Availability: days,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestUpsertAvailabilitySecondWriteReplacesFirst(t *testing.T) {
	caregiverID := primitive.NewObjectID()
	store := &fakeScheduleStore{}
	ac := &AvailabilityController{avail: store}

	first := []models.AvailabilityDay{
		{Day: "Monday", Slots: models.SlotSet{Morning: true}},
		{Day: "Tuesday", Slots: models.SlotSet{Evening: true}},
	}
	c, rec := newBookingContext(http.MethodPost, "/", upsertBody(t, caregiverID, first), caregiverID.Hex())
	require.NoError(t, ac.UpsertAvailability(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	second := []models.AvailabilityDay{
		{Day: "Friday", Slots: models.SlotSet{Afternoon: true}},
	}
	c, rec = newBookingContext(http.MethodPost, "/", upsertBody(t, caregiverID, second), caregiverID.Hex())
	require.NoError(t, ac.UpsertAvailability(c))
	assert.Equal(t, http.StatusOK, rec.Code, "a replace is a 200, not a 201")

	// Only the second array survives; Monday and Tuesday are gone.
	require.Len(t, store.days, 1)
	assert.Equal(t, "Friday", store.days[0].Day)
	assert.True(t, store.days[0].Slots.Afternoon)
}

func TestGetAvailabilityNotPublished(t *testing.T) {
	ac := &AvailabilityController{avail: &fakeScheduleStore{}}

	c, rec := newBookingContext(http.MethodGet, "/", "", primitive.NewObjectID().Hex())
	c.SetParamNames("caregiverId")
	c.SetParamValues(primitive.NewObjectID().Hex())

	require.NoError(t, ac.GetAvailability(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
