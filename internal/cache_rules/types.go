package cache_rules

import "time"

// TTLRules represents the TTL rules file
type TTLRules struct {
	// TTLDefaults maps a namespace (price, geo, narrative) to its validity window
	TTLDefaults map[string]time.Duration `yaml:"ttl_defaults"`
	// TTLOverrides maps a full cache key (e.g. "price:ETH/USD") to its validity window
	TTLOverrides map[string]time.Duration `yaml:"ttl_overrides"`
}
