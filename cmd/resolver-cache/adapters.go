package main

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/sources"
)

// priceSources builds the price ladder from configuration, leaving out disabled sources
func priceSources(cfg config.PriceConfig, client *http.Client, logger *zap.Logger) []interfaces.Source[models.Pair, float64] {
	var out []interfaces.Source[models.Pair, float64]
	if !cfg.Chainlink.Disabled {
		out = append(out, sources.NewChainlinkFeed(cfg.Chainlink, client, logger))
	}
	if !cfg.Aggregator.Disabled {
		out = append(out, sources.NewAggregatorAPI(cfg.Aggregator, client, logger))
	}
	if !cfg.Paid.Disabled {
		out = append(out, sources.NewPaidAPI(cfg.Paid, client, logger))
	}
	return out
}

// geoSources builds the geo-history ladder
func geoSources(cfg config.GeoConfig, client *http.Client, logger *zap.Logger) []interfaces.Source[models.GeoQuery, []models.Location] {
	var out []interfaces.Source[models.GeoQuery, []models.Location]
	if !cfg.Tracking.Disabled {
		out = append(out, sources.NewTrackingAPI(cfg.Tracking, client, logger))
	}
	if !cfg.Geocoder.Disabled {
		out = append(out, sources.NewGeocoder(cfg.Geocoder, client, logger))
	}
	return out
}

// narrativeSources builds one source per configured chat-completion provider
func narrativeSources(cfg config.NarrativeConfig, client *http.Client, logger *zap.Logger) []interfaces.Source[models.NarrativeRequest, string] {
	var out []interfaces.Source[models.NarrativeRequest, string]
	for _, provider := range cfg.Providers {
		if provider.Disabled {
			continue
		}
		out = append(out, sources.NewChatCompletion(provider, client, logger))
	}
	return out
}

// usable counts the sources whose static precondition holds
func usable[P any, T any](list []interfaces.Source[P, T]) int {
	n := 0
	for _, src := range list {
		if a, ok := src.(interfaces.Availability); ok && !a.Available() {
			continue
		}
		n++
	}
	return n
}

// checkFallbacks rejects a namespace whose only possible answer is a made-up zero value.
// The counts are the usable sources of each ladder.
func checkFallbacks(cfg *config.Config, prices, locations, narratives int) error {
	if cfg.Price.DefaultMock <= 0 {
		return models.NewConfigurationError("price", "default_mock must be positive, got %v", cfg.Price.DefaultMock)
	}
	if locations == 0 && len(cfg.Geo.Mocks) == 0 && len(cfg.Geo.DefaultMock) == 0 {
		return models.NewConfigurationError("geo", "no usable source and no mock history configured")
	}
	if narratives == 0 && len(cfg.Narrative.Mocks) == 0 && strings.TrimSpace(cfg.Narrative.DefaultMock) == "" {
		return models.NewConfigurationError("narrative", "no usable provider and no mock narrative configured")
	}
	if prices == 0 && len(cfg.Price.Mocks) == 0 {
		return models.NewConfigurationError("price", "no usable source and no mock prices configured")
	}
	return nil
}

// narrativeMocks keys the configured narratives by lower-cased crop
func narrativeMocks(cfg config.NarrativeConfig) map[string]string {
	out := make(map[string]string, len(cfg.Mocks))
	for crop, text := range cfg.Mocks {
		out[strings.ToLower(strings.TrimSpace(crop))] = text
	}
	return out
}

// geoMocks keys the configured histories by trimmed product id
func geoMocks(cfg config.GeoConfig) map[string][]models.Location {
	out := make(map[string][]models.Location, len(cfg.Mocks))
	for id, locations := range cfg.Mocks {
		out[strings.TrimSpace(id)] = locations
	}
	return out
}

