package noop

import (
	"context"

	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
)

// Ensure NoOpCache implements interfaces.DurableCache
var _ interfaces.DurableCache = (*NoOpCache)(nil)

// NoOpCache is a no-operation layer used when persistence is disabled or unreachable
type NoOpCache struct{}

// NewNoOpCache creates a new no-operation cache instance
func NewNoOpCache() interfaces.DurableCache {
	return &NoOpCache{}
}

// Get always returns cache miss
func (n *NoOpCache) Get(key string) (*models.CacheEntry, bool) {
	return nil, false
}

// Set does nothing
func (n *NoOpCache) Set(key string, entry *models.CacheEntry) {
	// No-op
}

// Delete does nothing
func (n *NoOpCache) Delete(key string) {
	// No-op
}

// Iterate never calls fn
func (n *NoOpCache) Iterate(ctx context.Context, prefix string, fn func(key string, entry *models.CacheEntry) error) error {
	return nil
}

// Close does nothing
func (n *NoOpCache) Close() error {
	return nil
}
