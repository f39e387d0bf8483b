package l2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/metrics"
	"go-resolver-cache/internal/models"
)

const keydbLayer = "keydb"

// Ensure KeyDBCache implements interfaces.DurableCache
var _ interfaces.DurableCache = (*KeyDBCache)(nil)

// KeyDBCache implements the durable layer using Redis/KeyDB
type KeyDBCache struct {
	client    interfaces.KeyDbClient
	config    *config.KeyDBConfig
	retention time.Duration
	logger    *zap.Logger
}

// NewKeyDBCache creates a new KeyDBCache instance with provided client.
// A zero retention stores entries without expiration.
func NewKeyDBCache(cfg *config.KeyDBConfig, retention time.Duration, client interfaces.KeyDbClient, logger *zap.Logger) interfaces.DurableCache {
	return &KeyDBCache{
		client:    client,
		config:    cfg,
		retention: retention,
		logger:    logger,
	}
}

// Get retrieves an entry from KeyDB regardless of freshness
func (kc *KeyDBCache) Get(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetReadTimeout())
	defer cancel()

	data, err := kc.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			kc.logger.Error("L2 cache get error", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError(keydbLayer, "upstream")
		}
		metrics.RecordCacheOperation(keydbLayer, "get", "miss")
		return nil, false
	}

	entry, err := decodeEntry([]byte(data))
	if err != nil {
		kc.logger.Error("Failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(keydbLayer, "decode")
		kc.Delete(key)
		return nil, false
	}

	metrics.RecordCacheOperation(keydbLayer, "get", "hit")
	return entry, true
}

// Set stores the entry in KeyDB
func (kc *KeyDBCache) Set(key string, entry *models.CacheEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	data, err := json.Marshal(entry)
	if err != nil {
		kc.logger.Error("Failed to marshal L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(keydbLayer, "encode")
		return
	}

	if err := kc.client.Set(ctx, key, data, kc.retention).Err(); err != nil {
		kc.logger.Error("Failed to set L2 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(keydbLayer, "upstream")
		return
	}
	metrics.RecordCacheOperation(keydbLayer, "set", "ok")
}

// Delete removes entry from KeyDB cache
func (kc *KeyDBCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), kc.config.GetSendTimeout())
	defer cancel()

	if err := kc.client.Del(ctx, key).Err(); err != nil {
		kc.logger.Error("Failed to delete L2 cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Iterate scans every key under prefix and calls fn with its decoded entry.
// Undecodable entries are skipped.
func (kc *KeyDBCache) Iterate(ctx context.Context, prefix string, fn func(key string, entry *models.CacheEntry) error) error {
	var cursor uint64
	match := escapeGlob(prefix) + "*"

	for {
		keys, next, err := kc.client.Scan(ctx, cursor, match, kc.config.ScanCount).Result()
		if err != nil {
			metrics.RecordCacheError(keydbLayer, "upstream")
			return fmt.Errorf("failed to scan KeyDB keys: %w", err)
		}

		for _, key := range keys {
			data, err := kc.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue // expired between scan and get
				}
				return fmt.Errorf("failed to read KeyDB key %s: %w", key, err)
			}

			entry, err := decodeEntry([]byte(data))
			if err != nil {
				kc.logger.Warn("Skipping undecodable L2 entry", zap.String("key", key), zap.Error(err))
				metrics.RecordCacheError(keydbLayer, "decode")
				continue
			}

			if err := fn(key, entry); err != nil {
				return err
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the KeyDB connection
func (kc *KeyDBCache) Close() error {
	return kc.client.Close()
}

func decodeEntry(data []byte) (*models.CacheEntry, error) {
	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if len(entry.Value) == 0 {
		return nil, errors.New("entry has no value")
	}
	return &entry, nil
}

// escapeGlob escapes characters with meaning in a SCAN MATCH pattern
func escapeGlob(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return replacer.Replace(s)
}
