package sources

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/utils"
)

// latestRoundData() selector on AggregatorV3Interface
const latestRoundDataSelector = "0xfeaf968c"

// latestRoundData returns five 32-byte words:
// roundId, answer, startedAt, updatedAt, answeredInRound
const roundDataWords = 5

var (
	_ interfaces.Source[models.Pair, float64] = (*ChainlinkFeed)(nil)
	_ interfaces.ParamSupport[models.Pair]    = (*ChainlinkFeed)(nil)
	_ interfaces.Availability                 = (*ChainlinkFeed)(nil)
)

// ChainlinkFeed reads price feed contracts through a JSON-RPC eth_call
type ChainlinkFeed struct {
	descriptor
	feeds  map[string]config.FeedConfig
	maxAge time.Duration
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewChainlinkFeed creates the on-chain feed source. Feed keys are normalised to BASE/QUOTE.
func NewChainlinkFeed(cfg config.ChainlinkConfig, client *http.Client, logger *zap.Logger) *ChainlinkFeed {
	feeds := make(map[string]config.FeedConfig, len(cfg.Feeds))
	for key, feed := range cfg.Feeds {
		pair, err := models.ParsePair(key)
		if err != nil {
			logger.Warn("Skipping invalid feed", zap.String("pair", key), zap.Error(err))
			continue
		}
		feeds[pair.String()] = feed
	}

	return &ChainlinkFeed{
		descriptor: newDescriptor(cfg.SourceConfig),
		feeds:      feeds,
		maxAge:     cfg.MaxAge,
		client:     client,
		logger:     logger,
		now:        time.Now,
	}
}

// Available reports whether an RPC endpoint and at least one feed are configured
func (c *ChainlinkFeed) Available() bool {
	return c.url != "" && len(c.feeds) > 0
}

// Supports reports whether a feed exists for the pair
func (c *ChainlinkFeed) Supports(pair models.Pair) bool {
	_, ok := c.feeds[pair.String()]
	return ok
}

// Fetch reads latestRoundData and scales the answer by the feed decimals
func (c *ChainlinkFeed) Fetch(ctx context.Context, pair models.Pair) (float64, error) {
	feed, ok := c.feeds[pair.String()]
	if !ok {
		return 0, models.Unavailable(c.name, fmt.Errorf("no feed for %s", pair))
	}

	call := models.EthCall{To: feed.Address, Data: latestRoundDataSelector}
	raw, err := utils.CallJSONRPC(ctx, c.client, c.name, c.url, "eth_call", []interface{}{call, "latest"})
	if err != nil {
		return 0, err
	}

	var result string
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, models.Malformed(c.name, fmt.Errorf("eth_call result is not a string: %w", err))
	}

	answer, updatedAt, err := decodeRoundData(result)
	if err != nil {
		return 0, models.Malformed(c.name, err)
	}

	if answer.Sign() <= 0 {
		return 0, models.Malformed(c.name, fmt.Errorf("non-positive answer %s", answer))
	}

	if c.maxAge > 0 {
		age := c.now().Sub(time.Unix(updatedAt, 0))
		if age > c.maxAge {
			return 0, models.Unavailable(c.name, fmt.Errorf("answer for %s is stale: updated %s ago", pair, age.Truncate(time.Second)))
		}
	}

	price := scaleAnswer(answer, feed.Decimals)
	if math.IsInf(price, 0) || price <= 0 {
		return 0, models.Malformed(c.name, fmt.Errorf("answer %s out of range", answer))
	}

	c.logger.Debug("Read on-chain price", zap.String("pair", pair.String()), zap.Float64("price", price))
	return price, nil
}

// decodeRoundData extracts the signed answer and updatedAt from ABI-encoded latestRoundData output
func decodeRoundData(result string) (*big.Int, int64, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid hex in eth_call result: %w", err)
	}
	if len(data) != roundDataWords*32 {
		return nil, 0, fmt.Errorf("expected %d bytes of round data, got %d", roundDataWords*32, len(data))
	}

	word := func(i int) []byte { return data[i*32 : (i+1)*32] }

	answer := new(big.Int).SetBytes(word(1))
	if word(1)[0]&0x80 != 0 {
		// two's complement int256
		answer.Sub(answer, new(big.Int).Lsh(big.NewInt(1), 256))
	}

	updated := new(big.Int).SetBytes(word(3))
	if !updated.IsInt64() {
		return nil, 0, errors.New("updatedAt overflows int64")
	}

	return answer, updated.Int64(), nil
}

func scaleAnswer(answer *big.Int, decimals int) float64 {
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	price, _ := new(big.Float).Quo(new(big.Float).SetInt(answer), scale).Float64()
	return price
}
