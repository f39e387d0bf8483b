package l1

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/metrics"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/scheduler"
)

const layerName = "l1"

// Ensure BigCache implements interfaces.Cache
var _ interfaces.Cache = (*BigCache)(nil)

// BigCache implements the in-memory layer using BigCache.
// Entries are never dropped because their TTL passed; only the retention
// window and the size limit bound what stays in memory.
type BigCache struct {
	cache            *bigcache.BigCache
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (interfaces.Cache, error) {
	config := bigcache.DefaultConfig(bigcacheCfg.Retention)
	config.Shards = bigcacheCfg.Shards
	config.CleanWindow = bigcacheCfg.CleanWindow
	config.HardMaxCacheSize = bigcacheCfg.Size // Size in MB
	config.MaxEntrySize = bigcacheCfg.MaxEntrySize
	config.Verbose = false

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}

	bc := &BigCache{
		cache:  cache,
		logger: logger,
	}

	// Start periodic metrics collection
	bc.startMetricsCollection()

	return bc, nil
}

// Get retrieves an entry regardless of freshness
func (bc *BigCache) Get(key string) (*models.CacheEntry, bool) {
	data, err := bc.cache.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			bc.logger.Warn("L1 cache get error", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError(layerName, "upstream")
		}
		metrics.RecordCacheOperation(layerName, "get", "miss")
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(layerName, "decode")
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	metrics.RecordCacheOperation(layerName, "get", "hit")
	return &entry, true
}

// Set stores the entry as-is
func (bc *BigCache) Set(key string, entry *models.CacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		bc.logger.Error("Failed to marshal cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(layerName, "encode")
		return
	}

	if err := bc.cache.Set(key, data); err != nil {
		bc.logger.Error("Failed to set cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(layerName, "upstream")
		return
	}
	metrics.RecordCacheOperation(layerName, "set", "ok")
}

// Delete removes entry from cache
func (bc *BigCache) Delete(key string) {
	_ = bc.cache.Delete(key)
}

// Close closes the cache
func (bc *BigCache) Close() error {
	// Stop metrics collection
	bc.stopMetricsCollection()

	return bc.cache.Close()
}

// GetStats returns cache capacity in bytes and the number of stored entries
func (bc *BigCache) GetStats() (capacity, entries int64) {
	return int64(bc.cache.Capacity()), int64(bc.cache.Len())
}

// startMetricsCollection starts periodic metrics collection
func (bc *BigCache) startMetricsCollection() {
	bc.metricsScheduler = scheduler.New(30*time.Second, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
}

// stopMetricsCollection stops periodic metrics collection
func (bc *BigCache) stopMetricsCollection() {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
}

// updateMetrics updates cache metrics
func (bc *BigCache) updateMetrics() {
	capacity, entries := bc.GetStats()
	metrics.UpdateCacheCapacity(layerName, capacity, entries)
}
