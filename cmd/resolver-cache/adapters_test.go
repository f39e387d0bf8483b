package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/models"
)

func sourceNames[S interface{ Name() string }](list []S) []string {
	names := make([]string, len(list))
	for i, s := range list {
		names[i] = s.Name()
	}
	return names
}

func TestPriceSources_SkipsDisabled(t *testing.T) {
	cfg := config.PriceConfig{
		Chainlink:  config.ChainlinkConfig{SourceConfig: config.SourceConfig{Name: "chainlink", Timeout: time.Second}},
		Aggregator: config.AggregatorConfig{SourceConfig: config.SourceConfig{Name: "aggregator", Timeout: time.Second, Disabled: true}},
		Paid:       config.PaidConfig{SourceConfig: config.SourceConfig{Name: "paid", Timeout: time.Second}},
	}

	got := priceSources(cfg, http.DefaultClient, zap.NewNop())

	assert.Equal(t, []string{"chainlink", "paid"}, sourceNames(got))
}

func TestGeoSources(t *testing.T) {
	cfg := config.GeoConfig{
		Tracking: config.SourceConfig{Name: "tracking", Timeout: time.Second},
		Geocoder: config.SourceConfig{Name: "geocoder", Timeout: time.Second},
	}

	got := geoSources(cfg, http.DefaultClient, zap.NewNop())

	assert.Equal(t, []string{"tracking", "geocoder"}, sourceNames(got))
}

func TestNarrativeSources_OnePerProvider(t *testing.T) {
	cfg := config.NarrativeConfig{Providers: []config.LLMProviderConfig{
		{SourceConfig: config.SourceConfig{Name: "primary", Timeout: time.Second}},
		{SourceConfig: config.SourceConfig{Name: "backup", Timeout: time.Second, Disabled: true}},
		{SourceConfig: config.SourceConfig{Name: "last", Timeout: time.Second}},
	}}

	got := narrativeSources(cfg, http.DefaultClient, zap.NewNop())

	assert.Equal(t, []string{"primary", "last"}, sourceNames(got))
}

func TestNarrativeMocks_LowercaseCrop(t *testing.T) {
	got := narrativeMocks(config.NarrativeConfig{Mocks: map[string]string{" Teff ": "Ancient grain", "maize": "Corn"}})

	assert.Equal(t, map[string]string{"teff": "Ancient grain", "maize": "Corn"}, got)
}

func TestGeoMocks_TrimmedIDs(t *testing.T) {
	loc := []models.Location{{Name: "Farm"}}

	got := geoMocks(config.GeoConfig{Mocks: map[string][]models.Location{" lot-1 ": loc}})

	assert.Equal(t, map[string][]models.Location{"lot-1": loc}, got)
}
