package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

var (
	_ interfaces.Source[models.GeoQuery, []models.Location] = (*TrackingAPI)(nil)
	_ interfaces.Availability                              = (*TrackingAPI)(nil)
)

// TrackingAPI reads the recorded supply-chain location history of a product
type TrackingAPI struct {
	descriptor
	client *http.Client
	logger *zap.Logger
}

type trackingResponse struct {
	Locations []models.Location `json:"locations"`
}

// NewTrackingAPI creates the supply-chain tracking source
func NewTrackingAPI(cfg config.SourceConfig, client *http.Client, logger *zap.Logger) *TrackingAPI {
	return &TrackingAPI{
		descriptor: newDescriptor(cfg),
		client:     client,
		logger:     logger,
	}
}

// Available reports whether an endpoint is configured
func (t *TrackingAPI) Available() bool {
	return t.url != ""
}

// Fetch returns the product's location history in recorded order
func (t *TrackingAPI) Fetch(ctx context.Context, query models.GeoQuery) ([]models.Location, error) {
	endpoint := fmt.Sprintf("%s/products/%s/locations", t.url, url.PathEscape(query.ProductID))

	headers := map[string]string{}
	if t.apiKey != "" {
		headers["Authorization"] = "Bearer " + t.apiKey
	}

	var response trackingResponse
	if err := utils.FetchJSON(ctx, t.client, t.name, endpoint, headers, &response); err != nil {
		return nil, err
	}

	if len(response.Locations) == 0 {
		return nil, models.Unavailable(t.name, fmt.Errorf("no locations recorded for %s", query.ProductID))
	}
	for i, loc := range response.Locations {
		if err := validateCoordinates(loc); err != nil {
			return nil, models.Malformed(t.name, fmt.Errorf("location %d: %w", i, err))
		}
	}

	return response.Locations, nil
}

func validateCoordinates(loc models.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", loc.Longitude)
	}
	return nil
}
