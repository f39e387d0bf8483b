package oracle

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/models"
)

// fakeLadder answers from scripted per-id results
type fakeLadder struct {
	mu       sync.Mutex
	results  map[string]models.Result[float64]
	cached   map[string]models.Result[float64]
	stored   map[string]float64
	resolved []string
}

func newFakeLadder() *fakeLadder {
	return &fakeLadder{
		results: map[string]models.Result[float64]{},
		cached:  map[string]models.Result[float64]{},
		stored:  map[string]float64{},
	}
}

func (f *fakeLadder) Resolve(ctx context.Context, id string, pair models.Pair) models.Result[float64] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved = append(f.resolved, id)
	return f.results[id]
}

func (f *fakeLadder) Cached(id string) (models.Result[float64], bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.cached[id]
	return r, ok
}

func (f *fakeLadder) Store(id string, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored[id] = value
}

func live(v float64, asOf time.Time) models.Result[float64] {
	return models.Result[float64]{Value: v, Tier: models.TierLive, AsOf: asOf}
}

func cached(v float64, asOf time.Time) models.Result[float64] {
	return models.Result[float64]{Value: v, Tier: models.TierCached, AsOf: asOf}
}

func mocked(v float64) models.Result[float64] {
	return models.Result[float64]{Value: v, Tier: models.TierMock}
}

func newTestOracle(ladder PriceLadder, cfg config.PriceConfig) *Oracle {
	return New(ladder, cfg, zap.NewNop())
}

func TestQuote_Identity(t *testing.T) {
	ladder := newFakeLadder()
	o := newTestOracle(ladder, config.PriceConfig{})

	for _, asset := range []string{"USD", "eth", "MATIC"} {
		result := o.Quote(context.Background(), asset, asset)

		assert.Equal(t, 1.0, result.Value)
		assert.Equal(t, models.TierLive, result.Tier)
	}
	assert.Empty(t, ladder.resolved)
}

func TestQuote_USDPairIsDirect(t *testing.T) {
	ladder := newFakeLadder()
	now := time.Now()
	ladder.results["MATIC/USD"] = live(0.73, now)
	o := newTestOracle(ladder, config.PriceConfig{})

	result := o.Quote(context.Background(), "matic", "usd")

	assert.Equal(t, live(0.73, now), result)
	assert.Equal(t, []string{"MATIC/USD"}, ladder.resolved)
	assert.Empty(t, ladder.stored)
}

func TestQuote_ConfiguredDirectPair(t *testing.T) {
	ladder := newFakeLadder()
	ladder.results["ETH/EUR"] = live(1850, time.Now())
	o := newTestOracle(ladder, config.PriceConfig{DirectPairs: []string{"eth/eur"}})

	result := o.Quote(context.Background(), "ETH", "EUR")

	assert.Equal(t, 1850.0, result.Value)
	assert.Equal(t, []string{"ETH/EUR"}, ladder.resolved)
}

func TestQuote_BridgeBothLive(t *testing.T) {
	ladder := newFakeLadder()
	t1 := time.Now().Add(-2 * time.Second)
	t2 := time.Now().Add(-time.Second)
	ladder.results["ETH/USD"] = live(2000, t2)
	ladder.results["MATIC/USD"] = live(0.8, t1)
	o := newTestOracle(ladder, config.PriceConfig{})

	result := o.Quote(context.Background(), "ETH", "MATIC")

	assert.InDelta(t, 2500.0, result.Value, 1e-9)
	assert.Equal(t, models.TierLive, result.Tier)
	assert.Equal(t, t1, result.AsOf)
	assert.ElementsMatch(t, []string{"ETH/USD", "MATIC/USD"}, ladder.resolved)
	assert.InDelta(t, 2500.0, ladder.stored["ETH/MATIC"], 1e-9)
}

func TestQuote_BridgeTierIsWorseLeg(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		base     models.Result[float64]
		quote    models.Result[float64]
		wantTier models.Tier
		wantAsOf time.Time
	}{
		{"live and cached", live(2000, now), cached(0.8, now.Add(-time.Hour)), models.TierCached, now.Add(-time.Hour)},
		{"cached and live", cached(2000, now.Add(-time.Minute)), live(0.8, now), models.TierCached, now.Add(-time.Minute)},
		{"live and mock", live(2000, now), mocked(0.5), models.TierMock, time.Time{}},
		{"cached and mock", cached(2000, now), mocked(0.5), models.TierMock, time.Time{}},
		{"mock and mock", mocked(2000), mocked(0.5), models.TierMock, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ladder := newFakeLadder()
			ladder.results["ETH/USD"] = tt.base
			ladder.results["MATIC/USD"] = tt.quote
			o := newTestOracle(ladder, config.PriceConfig{})

			result := o.Quote(context.Background(), "ETH", "MATIC")

			assert.Equal(t, tt.wantTier, result.Tier)
			assert.Equal(t, tt.wantAsOf, result.AsOf)
			assert.InDelta(t, tt.base.Value/tt.quote.Value, result.Value, 1e-9)
			// only an all-live bridge is written through
			assert.Empty(t, ladder.stored)
		})
	}
}

func TestQuote_BridgeFromUSD(t *testing.T) {
	ladder := newFakeLadder()
	ladder.results["MATIC/USD"] = live(0.8, time.Now())
	o := newTestOracle(ladder, config.PriceConfig{})

	result := o.Quote(context.Background(), "USD", "MATIC")

	assert.InDelta(t, 1.25, result.Value, 1e-12)
	assert.Equal(t, models.TierLive, result.Tier)
	assert.Equal(t, []string{"MATIC/USD"}, ladder.resolved)
}

func TestQuote_Consistency(t *testing.T) {
	ladder := newFakeLadder()
	ladder.results["ETH/USD"] = live(1999.37, time.Now())
	ladder.results["MATIC/USD"] = cached(0.7311, time.Now().Add(-time.Minute))
	ladder.results["BTC/USD"] = mocked(43000.5)
	o := newTestOracle(ladder, config.PriceConfig{})

	assets := []string{"ETH", "MATIC", "BTC"}
	for _, a := range assets {
		for _, b := range assets {
			ab := o.Quote(context.Background(), a, b).Value
			ba := o.Quote(context.Background(), b, a).Value
			assert.InDelta(t, 1.0, ab*ba, 1e-12, "%s/%s", a, b)
		}
	}
}

func TestQuote_ZeroDenominatorFallsBack(t *testing.T) {
	t.Run("pair cache", func(t *testing.T) {
		ladder := newFakeLadder()
		asOf := time.Now().Add(-time.Hour)
		ladder.results["ETH/USD"] = live(2000, time.Now())
		ladder.results["MATIC/USD"] = live(0, time.Now())
		ladder.cached["ETH/MATIC"] = cached(2600, asOf)
		o := newTestOracle(ladder, config.PriceConfig{})

		result := o.Quote(context.Background(), "ETH", "MATIC")

		assert.Equal(t, cached(2600, asOf), result)
		assert.Empty(t, ladder.stored)
	})

	t.Run("pair mock", func(t *testing.T) {
		ladder := newFakeLadder()
		ladder.results["ETH/USD"] = live(2000, time.Now())
		ladder.results["MATIC/USD"] = live(math.NaN(), time.Now())
		o := newTestOracle(ladder, config.PriceConfig{Mocks: map[string]float64{"eth/matic": 2500}})

		assert.Equal(t, mocked(2500), o.Quote(context.Background(), "ETH", "MATIC"))
	})

	t.Run("ratio of usd mocks", func(t *testing.T) {
		ladder := newFakeLadder()
		ladder.results["ETH/USD"] = live(0, time.Now())
		ladder.results["MATIC/USD"] = live(0.8, time.Now())
		o := newTestOracle(ladder, config.PriceConfig{Mocks: map[string]float64{"ETH/USD": 2000, "MATIC/USD": 0.5}})

		assert.Equal(t, mocked(4000), o.Quote(context.Background(), "ETH", "MATIC"))
	})

	t.Run("table default", func(t *testing.T) {
		ladder := newFakeLadder()
		ladder.results["ETH/USD"] = live(math.Inf(1), time.Now())
		ladder.results["MATIC/USD"] = live(0.8, time.Now())
		o := newTestOracle(ladder, config.PriceConfig{DefaultMock: 1})

		assert.Equal(t, mocked(1), o.Quote(context.Background(), "ETH", "MATIC"))
	})
}

func TestQuote_MockLegsPreferPairQuote(t *testing.T) {
	t.Run("pair cache", func(t *testing.T) {
		ladder := newFakeLadder()
		asOf := time.Now().Add(-time.Hour)
		ladder.results["ETH/USD"] = mocked(2000)
		ladder.results["MATIC/USD"] = live(0.8, time.Now())
		ladder.cached["ETH/MATIC"] = cached(2600, asOf)
		o := newTestOracle(ladder, config.PriceConfig{Mocks: map[string]float64{"ETH/MATIC": 2500}})

		assert.Equal(t, cached(2600, asOf), o.Quote(context.Background(), "ETH", "MATIC"))
	})

	t.Run("pair mock", func(t *testing.T) {
		ladder := newFakeLadder()
		ladder.results["ETH/USD"] = mocked(2000)
		ladder.results["MATIC/USD"] = mocked(0.5)
		o := newTestOracle(ladder, config.PriceConfig{Mocks: map[string]float64{"ETH/MATIC": 2500}})

		assert.Equal(t, mocked(2500), o.Quote(context.Background(), "ETH", "MATIC"))
	})

	t.Run("live legs ignore pair mock", func(t *testing.T) {
		ladder := newFakeLadder()
		now := time.Now()
		ladder.results["ETH/USD"] = live(2000, now)
		ladder.results["MATIC/USD"] = live(0.5, now)
		o := newTestOracle(ladder, config.PriceConfig{Mocks: map[string]float64{"ETH/MATIC": 2500}})

		assert.Equal(t, live(4000, now), o.Quote(context.Background(), "ETH", "MATIC"))
		assert.Equal(t, 4000.0, ladder.stored["ETH/MATIC"])
	})
}

func TestPrecision(t *testing.T) {
	zero := 0

	assert.Equal(t, config.DefaultDisplayPrecision, newTestOracle(newFakeLadder(), config.PriceConfig{}).Precision())
	assert.Equal(t, 0, newTestOracle(newFakeLadder(), config.PriceConfig{DisplayPrecision: &zero}).Precision())
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.733333, Round(0.7333333333, 6))
	assert.Equal(t, 2500.0, Round(2499.9999999, 4))
	assert.Equal(t, 1.5, Round(1.5, -1))
}

func TestNormalizeMocks(t *testing.T) {
	mocks := NormalizeMocks(map[string]float64{"eth/usd": 2000, " matic / usd ": 0.5, "bad": 1})

	require.Len(t, mocks, 2)
	assert.Equal(t, 2000.0, mocks["ETH/USD"])
	assert.Equal(t, 0.5, mocks["MATIC/USD"])
}
