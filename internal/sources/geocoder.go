package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

const geocoderUserAgent = "go-resolver-cache/1.0"

var (
	_ interfaces.Source[models.GeoQuery, []models.Location] = (*Geocoder)(nil)
	_ interfaces.ParamSupport[models.GeoQuery]             = (*Geocoder)(nil)
	_ interfaces.Availability                              = (*Geocoder)(nil)
)

// Geocoder resolves a product's declared origin into a single-point history
// using a Nominatim-compatible search endpoint
type Geocoder struct {
	descriptor
	client *http.Client
	logger *zap.Logger
}

type geocoderPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewGeocoder creates the geocoding source
func NewGeocoder(cfg config.SourceConfig, client *http.Client, logger *zap.Logger) *Geocoder {
	return &Geocoder{
		descriptor: newDescriptor(cfg),
		client:     client,
		logger:     logger,
	}
}

// Available reports whether an endpoint is configured
func (g *Geocoder) Available() bool {
	return g.url != ""
}

// Supports reports whether the query declares an origin to geocode
func (g *Geocoder) Supports(query models.GeoQuery) bool {
	return strings.TrimSpace(query.Origin) != ""
}

// Fetch geocodes the origin
func (g *Geocoder) Fetch(ctx context.Context, query models.GeoQuery) ([]models.Location, error) {
	params := url.Values{}
	params.Set("q", query.Origin)
	params.Set("format", "json")
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/search?%s", g.url, params.Encode())

	var places []geocoderPlace
	err := utils.FetchJSON(ctx, g.client, g.name, endpoint, map[string]string{"User-Agent": geocoderUserAgent}, &places)
	if err != nil {
		return nil, err
	}

	if len(places) == 0 {
		return nil, models.Unavailable(g.name, fmt.Errorf("origin %q not found", query.Origin))
	}

	place := places[0]
	lat, err := strconv.ParseFloat(place.Lat, 64)
	if err != nil {
		return nil, models.Malformed(g.name, fmt.Errorf("invalid latitude %q: %w", place.Lat, err))
	}
	lon, err := strconv.ParseFloat(place.Lon, 64)
	if err != nil {
		return nil, models.Malformed(g.name, fmt.Errorf("invalid longitude %q: %w", place.Lon, err))
	}

	loc := models.Location{
		Name:      place.DisplayName,
		Latitude:  lat,
		Longitude: lon,
		Stage:     "origin",
	}
	if err := validateCoordinates(loc); err != nil {
		return nil, models.Malformed(g.name, err)
	}

	return []models.Location{loc}, nil
}
