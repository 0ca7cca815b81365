// Package client is the Go consumer of the booking REST surface. It mirrors
// the mobile app's data layer: fetching availability and bookings, running
// the slot reconciliation locally to build the calendar, and submitting new
// pending bookings.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/carelink/carelink_backend/models"
)

// ErrNotFound means the requested record does not exist server-side.
var ErrNotFound = errors.New("not found")

// Client is a thin typed wrapper over the booking API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates an API client. The token is the bearer token the account
// service issued for the current user.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Message != "" {
			return fmt.Errorf("api error %d: %s", resp.StatusCode, env.Message)
		}
		return fmt.Errorf("api error %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Availability fetches a caregiver's weekly schedule. ErrNotFound means the
// caregiver never published one.
func (c *Client) Availability(ctx context.Context, caregiverID string) (*models.Availability, error) {
	var availability models.Availability
	err := c.do(ctx, http.MethodGet, "/api/availability/"+caregiverID, nil, &availability)
	if err != nil {
		return nil, err
	}
	return &availability, nil
}

// CaregiverBookings lists a caregiver's bookings with the given status.
// Older deployments signalled an empty result on this path with a 404; the
// empty set is a valid steady state, so that maps to an empty slice here.
func (c *Client) CaregiverBookings(ctx context.Context, caregiverID, status string) ([]models.Booking, error) {
	path := "/api/bookings/caregiver/" + caregiverID
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var bookings []models.Booking
	err := c.do(ctx, http.MethodGet, path, nil, &bookings)
	if err == ErrNotFound {
		return []models.Booking{}, nil
	}
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	return bookings, nil
}

// CaregiverSlots fetches the server-derived per-date occupancy view.
func (c *Client) CaregiverSlots(ctx context.Context, caregiverID, status string) ([]models.SlotSummary, error) {
	var summaries []models.SlotSummary
	err := c.do(ctx, http.MethodGet, "/api/bookings/caregiver/slots/"+caregiverID+"/"+status, nil, &summaries)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// CreateBooking submits a new booking; the server forces status to pending.
func (c *Client) CreateBooking(ctx context.Context, request models.BookingRequest) (*models.Booking, error) {
	var booking models.Booking
	err := c.do(ctx, http.MethodPost, "/api/bookings", request, &booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ChangeStatus moves a booking to a new status.
func (c *Client) ChangeStatus(ctx context.Context, bookingID, status string) (*models.Booking, error) {
	var booking models.Booking
	path := "/api/bookings/changeStatus/" + bookingID + "?status=" + url.QueryEscape(status)
	err := c.do(ctx, http.MethodPatch, path, nil, &booking)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
