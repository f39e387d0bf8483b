package multi

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-resolver-cache/internal/cache"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/metrics"
	"go-resolver-cache/internal/models"
)

// Ensure Store implements interfaces.CacheStore
var _ interfaces.CacheStore = (*Store)(nil)

// Store is the TTL cache store: a memory layer mirrored to a durable layer.
// It never evicts on TTL; freshness is only ever a question asked by the caller.
type Store struct {
	memory  interfaces.Cache
	durable interfaces.DurableCache
	logger  *zap.Logger
	now     func() time.Time
}

// NewStore creates a Store over the provided layers
func NewStore(memory interfaces.Cache, durable interfaces.DurableCache, logger *zap.Logger) *Store {
	return &Store{
		memory:  memory,
		durable: durable,
		logger:  logger,
		now:     time.Now,
	}
}

// Init rehydrates the memory layer from the durable layer.
// With no namespaces given every durable entry is loaded.
func (s *Store) Init(ctx context.Context, namespaces ...string) error {
	prefixes := []string{""}
	if len(namespaces) > 0 {
		prefixes = make([]string, 0, len(namespaces))
		for _, ns := range namespaces {
			prefixes = append(prefixes, cache.Prefix(ns))
		}
	}

	total := 0
	for _, prefix := range prefixes {
		count := 0
		err := s.durable.Iterate(ctx, prefix, func(key string, entry *models.CacheEntry) error {
			s.memory.Set(key, entry)
			count++
			return nil
		})
		total += count
		if err != nil {
			metrics.RecordRehydrated("memory", total)
			return fmt.Errorf("failed to rehydrate prefix %q: %w", prefix, err)
		}
		s.logger.Debug("Rehydrated cache prefix", zap.String("prefix", prefix), zap.Int("entries", count))
	}

	metrics.RecordRehydrated("memory", total)
	s.logger.Info("Cache store initialised", zap.Int("rehydrated", total))
	return nil
}

// Get returns the entry for key from the first layer holding it, fresh or not
func (s *Store) Get(key string) (*models.CacheEntry, bool) {
	if entry, found := s.memory.Get(key); found {
		return entry, true
	}
	return s.durable.Get(key)
}

// Set records a live value written now and mirrors it to the durable layer
func (s *Store) Set(key string, value []byte, ttl time.Duration) {
	entry := models.NewCacheEntry(value, s.now(), ttl)
	s.memory.Set(key, entry)
	s.durable.Set(key, entry)
}

// IsFresh reports whether now - writtenAt < ttl
func (s *Store) IsFresh(entry *models.CacheEntry) bool {
	if entry == nil {
		return false
	}
	return entry.IsFreshAt(s.now())
}
