package sources

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

var (
	_ interfaces.Source[models.Pair, float64] = (*AggregatorAPI)(nil)
	_ interfaces.ParamSupport[models.Pair]    = (*AggregatorAPI)(nil)
	_ interfaces.Availability                 = (*AggregatorAPI)(nil)
)

// AggregatorAPI queries a CoinGecko-compatible simple/price endpoint
type AggregatorAPI struct {
	descriptor
	assetIDs     map[string]string
	vsCurrencies map[string]struct{}
	client       *http.Client
	logger       *zap.Logger
}

// NewAggregatorAPI creates the public aggregator source
func NewAggregatorAPI(cfg config.AggregatorConfig, client *http.Client, logger *zap.Logger) *AggregatorAPI {
	assetIDs := make(map[string]string, len(cfg.AssetIDs))
	for symbol, id := range cfg.AssetIDs {
		assetIDs[strings.ToUpper(symbol)] = id
	}
	vs := make(map[string]struct{}, len(cfg.VsCurrencies))
	for _, currency := range cfg.VsCurrencies {
		vs[strings.ToUpper(currency)] = struct{}{}
	}

	return &AggregatorAPI{
		descriptor:   newDescriptor(cfg.SourceConfig),
		assetIDs:     assetIDs,
		vsCurrencies: vs,
		client:       client,
		logger:       logger,
	}
}

// Available reports whether an endpoint is configured
func (a *AggregatorAPI) Available() bool {
	return a.url != ""
}

// Supports reports whether the base asset has an id and the quote is a known currency
func (a *AggregatorAPI) Supports(pair models.Pair) bool {
	if _, ok := a.assetIDs[pair.Base]; !ok {
		return false
	}
	_, ok := a.vsCurrencies[pair.Quote]
	return ok
}

// Fetch reads the price of base in quote
func (a *AggregatorAPI) Fetch(ctx context.Context, pair models.Pair) (float64, error) {
	id, ok := a.assetIDs[pair.Base]
	if !ok {
		return 0, models.Unavailable(a.name, fmt.Errorf("no asset id for %s", pair.Base))
	}
	currency := strings.ToLower(pair.Quote)

	query := url.Values{}
	query.Set("ids", id)
	query.Set("vs_currencies", currency)
	endpoint := fmt.Sprintf("%s/simple/price?%s", a.url, query.Encode())

	headers := map[string]string{}
	if a.apiKey != "" {
		headers["x-cg-demo-api-key"] = a.apiKey
	}

	var response map[string]map[string]float64
	if err := utils.FetchJSON(ctx, a.client, a.name, endpoint, headers, &response); err != nil {
		return 0, err
	}

	prices, ok := response[id]
	if !ok {
		return 0, models.Unavailable(a.name, fmt.Errorf("no data for %s", id))
	}
	price, ok := prices[currency]
	if !ok {
		return 0, models.Unavailable(a.name, fmt.Errorf("no %s price for %s", currency, id))
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, models.Malformed(a.name, fmt.Errorf("invalid price %v for %s", price, pair))
	}

	return price, nil
}
