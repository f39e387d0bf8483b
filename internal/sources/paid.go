package sources

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

const paidAPIKeyHeader = "X-CMC_PRO_API_KEY"

var (
	_ interfaces.Source[models.Pair, float64] = (*PaidAPI)(nil)
	_ interfaces.Availability                 = (*PaidAPI)(nil)
)

// PaidAPI queries a CoinMarketCap-compatible quotes endpoint.
// It requires an API key and is skipped without one.
type PaidAPI struct {
	descriptor
	client *http.Client
	logger *zap.Logger
}

type paidQuote struct {
	Price *float64 `json:"price"`
}

type paidAsset struct {
	Symbol string               `json:"symbol"`
	Quote  map[string]paidQuote `json:"quote"`
}

type paidResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Data map[string][]paidAsset `json:"data"`
}

// NewPaidAPI creates the keyed market-data source
func NewPaidAPI(cfg config.PaidConfig, client *http.Client, logger *zap.Logger) *PaidAPI {
	return &PaidAPI{
		descriptor: newDescriptor(cfg.SourceConfig),
		client:     client,
		logger:     logger,
	}
}

// Available reports whether both an endpoint and an API key are configured
func (p *PaidAPI) Available() bool {
	return p.url != "" && p.apiKey != ""
}

// Fetch reads the latest quote of base converted to quote
func (p *PaidAPI) Fetch(ctx context.Context, pair models.Pair) (float64, error) {
	query := url.Values{}
	query.Set("symbol", pair.Base)
	query.Set("convert", pair.Quote)
	endpoint := fmt.Sprintf("%s/v2/cryptocurrency/quotes/latest?%s", p.url, query.Encode())

	var response paidResponse
	err := utils.FetchJSON(ctx, p.client, p.name, endpoint, map[string]string{paidAPIKeyHeader: p.apiKey}, &response)
	if err != nil {
		return 0, err
	}

	if response.Status.ErrorCode != 0 {
		return 0, models.Unavailable(p.name, fmt.Errorf("api error %d: %s", response.Status.ErrorCode, response.Status.ErrorMessage))
	}

	assets := response.Data[pair.Base]
	if len(assets) == 0 {
		return 0, models.Unavailable(p.name, fmt.Errorf("no data for %s", pair.Base))
	}
	quote, ok := assets[0].Quote[pair.Quote]
	if !ok || quote.Price == nil {
		return 0, models.Unavailable(p.name, fmt.Errorf("no %s quote for %s", pair.Quote, pair.Base))
	}

	price := *quote.Price
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, models.Malformed(p.name, fmt.Errorf("invalid price %v for %s", price, pair))
	}

	return price, nil
}
