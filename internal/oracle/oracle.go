package oracle

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/models"
)

// PriceLadder is the price resolver the oracle drives
type PriceLadder interface {
	Resolve(ctx context.Context, id string, pair models.Pair) models.Result[float64]
	Cached(id string) (models.Result[float64], bool)
	Store(id string, value float64)
}

// Oracle quotes any pair, bridging through USD when no direct quote is configured
type Oracle struct {
	ladder      PriceLadder
	direct      map[string]struct{}
	mocks       map[string]float64
	defaultMock float64
	precision   int
	logger      *zap.Logger
	now         func() time.Time
}

// New creates an Oracle. Invalid pairs in cfg are ignored; config validation rejects them earlier.
func New(ladder PriceLadder, cfg config.PriceConfig, logger *zap.Logger) *Oracle {
	direct := make(map[string]struct{}, len(cfg.DirectPairs))
	for _, p := range cfg.DirectPairs {
		if pair, err := models.ParsePair(p); err == nil {
			direct[pair.String()] = struct{}{}
		}
	}

	return &Oracle{
		ladder:      ladder,
		direct:      direct,
		mocks:       NormalizeMocks(cfg.Mocks),
		defaultMock: cfg.DefaultMock,
		precision:   cfg.Precision(),
		logger:      logger,
		now:         time.Now,
	}
}

// Quote returns the price of one base in quote
func (o *Oracle) Quote(ctx context.Context, base, quote string) models.Result[float64] {
	pair := models.NewPair(base, quote)

	if pair.IsIdentity() {
		return models.Result[float64]{Value: 1, Tier: models.TierLive, AsOf: o.now()}
	}

	if o.isDirect(pair) {
		return o.ladder.Resolve(ctx, pair.String(), pair)
	}

	return o.bridge(ctx, pair)
}

// Precision returns the number of decimals used for presentation
func (o *Oracle) Precision() int {
	return o.precision
}

func (o *Oracle) isDirect(pair models.Pair) bool {
	if pair.Quote == models.BridgeCurrency {
		return true
	}
	_, ok := o.direct[pair.String()]
	return ok
}

// bridge derives base/quote as (base/USD) / (quote/USD). The legs resolve independently
// and the result is only as trustworthy as the weaker one.
func (o *Oracle) bridge(ctx context.Context, pair models.Pair) models.Result[float64] {
	var baseLeg, quoteLeg models.Result[float64]

	var g errgroup.Group
	g.Go(func() error {
		baseLeg = o.leg(ctx, pair.Base)
		return nil
	})
	g.Go(func() error {
		quoteLeg = o.leg(ctx, pair.Quote)
		return nil
	})
	_ = g.Wait()

	rate := baseLeg.Value / quoteLeg.Value
	if !validRate(baseLeg.Value) || !validRate(quoteLeg.Value) || !validRate(rate) {
		o.logger.Warn("Bridge leg unusable, falling back",
			zap.String("pair", pair.String()),
			zap.Float64("base_usd", baseLeg.Value),
			zap.Float64("quote_usd", quoteLeg.Value))
		return o.fallback(pair)
	}

	tier := models.Worse(baseLeg.Tier, quoteLeg.Tier)
	if tier == models.TierMock {
		// a cached or configured pair beats a rate made up from leg mocks
		if own, ok := o.ownQuote(pair); ok {
			return own
		}
	}
	result := models.Result[float64]{Value: rate, Tier: tier}
	if tier != models.TierMock {
		result.AsOf = older(baseLeg.AsOf, quoteLeg.AsOf)
	}

	if tier == models.TierLive {
		o.ladder.Store(pair.String(), rate)
	}

	o.logger.Debug("Bridged quote",
		zap.String("pair", pair.String()),
		zap.String("base_tier", string(baseLeg.Tier)),
		zap.String("quote_tier", string(quoteLeg.Tier)),
		zap.Float64("rate", rate))
	return result
}

func (o *Oracle) leg(ctx context.Context, asset string) models.Result[float64] {
	if asset == models.BridgeCurrency {
		return models.Result[float64]{Value: 1, Tier: models.TierLive, AsOf: o.now()}
	}
	leg := models.USDLeg(asset)
	return o.ladder.Resolve(ctx, leg.String(), leg)
}

// fallback serves the pair's own cache entry, else its mock, else the ratio of
// USD mocks, else the table default
func (o *Oracle) fallback(pair models.Pair) models.Result[float64] {
	if own, ok := o.ownQuote(pair); ok {
		return own
	}

	if rate, ok := o.mockRatio(pair); ok {
		return models.Result[float64]{Value: rate, Tier: models.TierMock}
	}

	return models.Result[float64]{Value: o.defaultMock, Tier: models.TierMock}
}

// ownQuote returns the pair's own cache entry, else its configured mock
func (o *Oracle) ownQuote(pair models.Pair) (models.Result[float64], bool) {
	if cached, ok := o.ladder.Cached(pair.String()); ok && validRate(cached.Value) {
		return cached, true
	}
	if v, ok := o.mocks[pair.String()]; ok && validRate(v) {
		return models.Result[float64]{Value: v, Tier: models.TierMock}, true
	}
	return models.Result[float64]{}, false
}

func (o *Oracle) mockRatio(pair models.Pair) (float64, bool) {
	usd := func(asset string) (float64, bool) {
		if asset == models.BridgeCurrency {
			return 1, true
		}
		v, ok := o.mocks[models.USDLeg(asset).String()]
		return v, ok
	}

	b, okB := usd(pair.Base)
	q, okQ := usd(pair.Quote)
	if !okB || !okQ {
		return 0, false
	}
	rate := b / q
	return rate, validRate(b) && validRate(q) && validRate(rate)
}

// NormalizeMocks rewrites mock table keys to canonical BASE/QUOTE, dropping invalid ones
func NormalizeMocks(mocks map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(mocks))
	for key, v := range mocks {
		if pair, err := models.ParsePair(key); err == nil {
			out[pair.String()] = v
		}
	}
	return out
}

// Round rounds v to precision decimals. Only for presentation.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		return v
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func validRate(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func older(a, b time.Time) time.Time {
	if a.IsZero() || b.IsZero() {
		return time.Time{}
	}
	if a.Before(b) {
		return a
	}
	return b
}
