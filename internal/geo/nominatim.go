package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rentoka/internal/config"

	"github.com/rs/zerolog"
)

// PlaceholderLocation is shown whenever the lookup fails. Location display is
// cosmetic and must never block rendering.
const PlaceholderLocation = "Lokasi tidak dikenal"

// NominatimClient resolves coordinates to a "City, Country" string through the
// OpenStreetMap reverse-geocoding endpoint.
type NominatimClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewNominatimClient(cfg config.GeocoderConfig, logger *zerolog.Logger) *NominatimClient {
	return &NominatimClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:     logger,
	}
}

type reverseResponse struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Municipality string `json:"municipality"`
		Country      string `json:"country"`
	} `json:"address"`
}

// ReverseCity returns "City, Country" for the coordinates, falling back to the
// placeholder on any error.
func (c *NominatimClient) ReverseCity(ctx context.Context, lat, lon float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f", c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PlaceholderLocation, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("reverse geocoding request failed")
		return PlaceholderLocation, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return PlaceholderLocation, fmt.Errorf("reverse geocoding: http %d", resp.StatusCode)
	}

	var data reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return PlaceholderLocation, fmt.Errorf("decode reverse geocoding response: %w", err)
	}

	city := data.Address.City
	if city == "" {
		city = data.Address.Town
	}
	if city == "" {
		city = data.Address.Municipality
	}
	if city == "" {
		return PlaceholderLocation, nil
	}

	country := data.Address.Country
	if country == "" {
		country = "Indonesia"
	}

	return fmt.Sprintf("%s, %s", city, country), nil
}
