package interfaces

import "time"

//go:generate mockgen -package=mock -source=ttl_rules.go -destination=mock/ttl_rules.go

// TTLRulesConfig exposes the raw TTL settings loaded from configuration
type TTLRulesConfig interface {
	// GetTtlForNamespace returns the default TTL of a namespace, 0 if none is configured
	GetTtlForNamespace(namespace string) time.Duration
	// GetTtlOverride returns a per-key TTL override
	GetTtlOverride(key string) (time.Duration, bool)
}

// TTLClassifier decides the TTL applied to a cache key
type TTLClassifier interface {
	GetTtl(namespace, id string) time.Duration
}
