package interfaces

import (
	"context"
	"time"

	"go-resolver-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Cache is one storage layer of the TTL cache store
type Cache interface {
	Get(key string) (*models.CacheEntry, bool) // returns entry and found flag, never judges freshness
	Set(key string, entry *models.CacheEntry)
	Delete(key string)
}

// DurableCache is a layer that survives process restarts and can be scanned to rehydrate memory
type DurableCache interface {
	Cache
	// Iterate calls fn for every stored entry whose key starts with prefix
	Iterate(ctx context.Context, prefix string, fn func(key string, entry *models.CacheEntry) error) error
	Close() error
}

// CacheStore is the namespaced TTL store consumed by the resolver
type CacheStore interface {
	Get(key string) (*models.CacheEntry, bool)
	Set(key string, value []byte, ttl time.Duration)
	IsFresh(entry *models.CacheEntry) bool
}
