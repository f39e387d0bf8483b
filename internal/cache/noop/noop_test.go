package noop

import (
	"context"
	"testing"
	"time"

	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/models"
)

func TestNewNoOpCache(t *testing.T) {
	cache := NewNoOpCache()

	// Verify it implements the DurableCache interface
	var _ interfaces.DurableCache = cache

	if _, ok := cache.(*NoOpCache); !ok {
		t.Errorf("NewNoOpCache() should return a *NoOpCache instance")
	}
}

func TestNoOpCache_Get(t *testing.T) {
	cache := NewNoOpCache()

	testCases := []string{
		"price:MATIC/USD",
		"",
		"narrative:5d41402abc4b2a76b9719d911017c592",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			entry, found := cache.Get(key)

			if entry != nil {
				t.Errorf("Get(%q) entry = %v, want nil", key, entry)
			}
			if found {
				t.Errorf("Get(%q) found = %v, want false", key, found)
			}
		})
	}
}

func TestNoOpCache_SetThenGet(t *testing.T) {
	cache := NewNoOpCache()

	cache.Set("price:MATIC/USD", models.NewCacheEntry([]byte(`0.73`), time.Now(), time.Minute))

	if _, found := cache.Get("price:MATIC/USD"); found {
		t.Error("Get() after Set() should still miss")
	}

	// Should not panic
	cache.Delete("price:MATIC/USD")
}

func TestNoOpCache_Iterate(t *testing.T) {
	cache := NewNoOpCache()

	called := false
	err := cache.Iterate(context.Background(), "price:", func(string, *models.CacheEntry) error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("Iterate() error = %v, want nil", err)
	}
	if called {
		t.Error("Iterate() should never call fn")
	}
}

func TestNoOpCache_Close(t *testing.T) {
	if err := NewNoOpCache().Close(); err != nil {
		t.Errorf("Close() error = %v, want nil", err)
	}
}
