package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"go-resolver-cache/internal/cache"
	"go-resolver-cache/internal/interfaces"
)

// Classifier implements the TTLClassifier interface
type Classifier struct {
	logger    *zap.Logger
	configTTL interfaces.TTLRulesConfig
}

// Ensure Classifier implements the TTLClassifier interface
var _ interfaces.TTLClassifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, configTTL interfaces.TTLRulesConfig) *Classifier {
	return &Classifier{
		logger:    logger,
		configTTL: configTTL,
	}
}

// GetTtl returns the per-key override for namespace:id, else the namespace default.
// Zero means no TTL is known for the namespace.
func (c *Classifier) GetTtl(namespace, id string) time.Duration {
	if id != "" {
		if ttl, ok := c.configTTL.GetTtlOverride(cache.Prefix(namespace) + id); ok {
			return ttl
		}
	}

	ttl := c.configTTL.GetTtlForNamespace(namespace)
	if ttl == 0 && c.logger != nil {
		c.logger.Warn("No TTL configured for namespace", zap.String("namespace", namespace))
	}
	return ttl
}
