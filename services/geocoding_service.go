package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/carelink/carelink_backend/models"
	"github.com/carelink/carelink_backend/pkg/logger"
)

// GeocodingService resolves free-text addresses to coordinates through an
// external Nominatim-compatible API. Bookings are stamped with the result at
// creation time; a resolution failure aborts the submission.
type GeocodingService struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeocodingService creates a geocoding service from the environment.
func NewGeocodingService() *GeocodingService {
	baseURL := os.Getenv("GEOCODER_BASE_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return NewGeocodingServiceWithBaseURL(baseURL)
}

// NewGeocodingServiceWithBaseURL creates a geocoding service against a
// specific endpoint.
func NewGeocodingServiceWithBaseURL(baseURL string) *GeocodingService {
	return &GeocodingService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geocodeResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Resolve returns the coordinates of an address. An address the upstream
// cannot place is an error, not a zero point.
func (s *GeocodingService) Resolve(ctx context.Context, address string) (*models.GeoPoint, error) {
	if address == "" {
		return nil, fmt.Errorf("address is empty")
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", s.baseURL, url.QueryEscape(address))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "carelink-backend")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warnf("Geocoder returned status %d for address lookup", resp.StatusCode)
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results for address")
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in response: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in response: %w", err)
	}

	return &models.GeoPoint{Latitude: lat, Longitude: lon}, nil
}
