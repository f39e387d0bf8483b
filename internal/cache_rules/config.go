package cache_rules

import (
	"time"

	"go.uber.org/zap"

	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
)

// TTLConfig implements the TTLRulesConfig interface
type TTLConfig struct {
	rules  *TTLRules
	logger *zap.Logger
}

// Ensure TTLConfig implements the TTLRulesConfig interface
var _ interfaces.TTLRulesConfig = (*TTLConfig)(nil)

// NewTTLConfig creates a new TTLConfig instance
func NewTTLConfig(rules *TTLRules, logger *zap.Logger) *TTLConfig {
	if rules == nil {
		panic("rules cannot be nil")
	}
	return &TTLConfig{
		rules:  rules,
		logger: logger,
	}
}

// GetTtlForNamespace implements TTLRulesConfig interface
func (tc *TTLConfig) GetTtlForNamespace(namespace string) time.Duration {
	if ttl, ok := tc.rules.TTLDefaults[namespace]; ok && ttl > 0 {
		return ttl
	}

	ttl := getFallbackTTL(namespace)
	if ttl > 0 && tc.logger != nil {
		tc.logger.Debug("Namespace not configured, using fallback TTL",
			zap.String("namespace", namespace), zap.Duration("ttl", ttl))
	}
	return ttl
}

// GetTtlOverride implements TTLRulesConfig interface
func (tc *TTLConfig) GetTtlOverride(key string) (time.Duration, bool) {
	ttl, ok := tc.rules.TTLOverrides[key]
	if !ok || ttl <= 0 {
		return 0, false
	}
	return ttl, true
}

// getFallbackTTL provides TTL values when the rules file does not name a namespace
func getFallbackTTL(namespace string) time.Duration {
	fallbackTTLs := map[string]time.Duration{
		models.NamespacePrice:     5 * time.Minute,
		models.NamespaceGeo:       30 * time.Minute,
		models.NamespaceNarrative: 30 * time.Minute,
	}

	return fallbackTTLs[namespace]
}
