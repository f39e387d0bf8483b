package resolver

import (
	"strings"
	"time"

	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
)

// MockFunc returns the static fallback for a lookup, false when the table has none
type MockFunc[P any, T any] func(id string, params P) (T, bool)

// Config describes one resolution ladder
type Config[P any, T any] struct {
	// Namespace prefixes every cache key, e.g. "price"
	Namespace string
	// Sources are tried in ascending priority; order among equal priorities is kept
	Sources []interfaces.Source[P, T]
	// TTL is the validity window written with every live value
	TTL time.Duration
	// TTLRules optionally overrides TTL per key
	TTLRules interfaces.TTLClassifier
	// Mock is the last resort when no source answers and nothing is cached
	Mock MockFunc[P, T]
}

// StaticMocks serves table[id], else def
func StaticMocks[P any, T any](table map[string]T, def T) MockFunc[P, T] {
	return KeyedMocks[P](table, def, nil)
}

// KeyedMocks serves table[keyOf(params)], else def. A nil keyOf keys by id.
func KeyedMocks[P any, T any](table map[string]T, def T, keyOf func(P) string) MockFunc[P, T] {
	return func(id string, params P) (T, bool) {
		key := id
		if keyOf != nil {
			key = keyOf(params)
		}
		if v, ok := table[key]; ok {
			return v, true
		}
		return def, true
	}
}

// TableMocks serves table[id] only
func TableMocks[P any, T any](table map[string]T) MockFunc[P, T] {
	return func(id string, _ P) (T, bool) {
		v, ok := table[id]
		return v, ok
	}
}

func (c *Config[P, T]) validate(store interfaces.CacheStore) error {
	if c.Namespace == "" || strings.Contains(c.Namespace, ":") {
		return models.NewConfigurationError("resolver", "namespace %q must be non-empty and contain no ':'", c.Namespace)
	}
	component := "resolver " + c.Namespace

	if store == nil {
		return models.NewConfigurationError(component, "cache store is required")
	}
	if c.TTL <= 0 {
		return models.NewConfigurationError(component, "ttl must be positive, got %s", c.TTL)
	}
	if len(c.Sources) == 0 && c.Mock == nil {
		return models.NewConfigurationError(component, "neither sources nor a mock are configured")
	}

	names := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if src == nil {
			return models.NewConfigurationError(component, "source %d is nil", i)
		}
		if src.Name() == "" {
			return models.NewConfigurationError(component, "source %d has no name", i)
		}
		if _, dup := names[src.Name()]; dup {
			return models.NewConfigurationError(component, "duplicate source name %q", src.Name())
		}
		names[src.Name()] = struct{}{}
		if src.Timeout() <= 0 {
			return models.NewConfigurationError(component, "source %q must have a positive timeout, got %s", src.Name(), src.Timeout())
		}
	}
	return nil
}
