package l2

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/models"
)

func newTestSQLiteCache(t *testing.T, path string, retention time.Duration) *SQLiteCache {
	t.Helper()
	cfg := &config.SQLiteConfig{Path: path, BusyTimeout: 5 * time.Second}

	cache, err := NewSQLiteCache(cfg, retention, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestSQLiteCache_Set_And_Get(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	entry := models.NewCacheEntry([]byte(`0.73`), time.Now(), 5*time.Minute)
	cache.Set("price:MATIC/USD", entry)

	result, found := cache.Get("price:MATIC/USD")

	require.True(t, found)
	assert.Equal(t, entry.WrittenAt, result.WrittenAt)
	assert.Equal(t, int64(300000), result.TTLMillis)
	assert.JSONEq(t, `0.73`, string(result.Value))
}

func TestSQLiteCache_Get_NotFound(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	result, found := cache.Get("price:NONE/USD")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestSQLiteCache_Set_Overwrites(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	cache.Set("price:MATIC/USD", models.NewCacheEntry([]byte(`0.70`), time.Now().Add(-time.Minute), time.Minute))
	latest := models.NewCacheEntry([]byte(`0.73`), time.Now(), time.Minute)
	cache.Set("price:MATIC/USD", latest)

	result, found := cache.Get("price:MATIC/USD")
	require.True(t, found)
	assert.JSONEq(t, `0.73`, string(result.Value))
	assert.Equal(t, latest.WrittenAt, result.WrittenAt)
}

func TestSQLiteCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	first := newTestSQLiteCache(t, path, 0)
	first.Set("narrative:abc", models.NewCacheEntry([]byte(`"Sun-dried maize"`), time.Now(), 30*time.Minute))
	require.NoError(t, first.Close())

	second := newTestSQLiteCache(t, path, 0)
	result, found := second.Get("narrative:abc")

	require.True(t, found)
	assert.JSONEq(t, `"Sun-dried maize"`, string(result.Value))
}

func TestSQLiteCache_Delete(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	cache.Set("geo:lot-1", models.NewCacheEntry([]byte(`[]`), time.Now(), time.Minute))
	cache.Delete("geo:lot-1")

	_, found := cache.Get("geo:lot-1")
	assert.False(t, found)
}

func TestSQLiteCache_Iterate_Prefix(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	cache.Set("price:MATIC/USD", models.NewCacheEntry([]byte(`0.73`), time.Now(), time.Minute))
	cache.Set("price:ETH/USD", models.NewCacheEntry([]byte(`2000`), time.Now(), time.Minute))
	cache.Set("geo:lot-1", models.NewCacheEntry([]byte(`[]`), time.Now(), time.Minute))
	cache.Set("priceX:MATIC", models.NewCacheEntry([]byte(`1`), time.Now(), time.Minute))

	var keys []string
	err := cache.Iterate(context.Background(), "price:", func(key string, entry *models.CacheEntry) error {
		keys = append(keys, key)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"price:ETH/USD", "price:MATIC/USD"}, keys)

	var all int
	require.NoError(t, cache.Iterate(context.Background(), "", func(string, *models.CacheEntry) error {
		all++
		return nil
	}))
	assert.Equal(t, 4, all)
}

func TestSQLiteCache_Iterate_EscapesWildcards(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	cache.Set("a_b:1", models.NewCacheEntry([]byte(`1`), time.Now(), time.Minute))
	cache.Set("axb:2", models.NewCacheEntry([]byte(`2`), time.Now(), time.Minute))

	var keys []string
	require.NoError(t, cache.Iterate(context.Background(), "a_b:", func(key string, _ *models.CacheEntry) error {
		keys = append(keys, key)
		return nil
	}))

	assert.Equal(t, []string{"a_b:1"}, keys)
}

func TestSQLiteCache_Iterate_StopsOnError(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	cache.Set("price:A/USD", models.NewCacheEntry([]byte(`1`), time.Now(), time.Minute))
	cache.Set("price:B/USD", models.NewCacheEntry([]byte(`2`), time.Now(), time.Minute))

	stop := errors.New("stop")
	calls := 0
	err := cache.Iterate(context.Background(), "price:", func(string, *models.CacheEntry) error {
		calls++
		return stop
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestSQLiteCache_Retention(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), time.Hour)

	cache.Set("price:OLD/USD", models.NewCacheEntry([]byte(`1`), time.Now(), time.Minute))
	cache.Set("price:NEW/USD", models.NewCacheEntry([]byte(`2`), time.Now(), time.Minute))

	// age the first row beyond retention
	_, err := cache.db.Exec(`UPDATE cache_entries SET stored_at = ? WHERE key = ?`,
		time.Now().Add(-2*time.Hour).UnixMilli(), "price:OLD/USD")
	require.NoError(t, err)

	_, found := cache.Get("price:OLD/USD")
	assert.False(t, found)

	purged, err := cache.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, found = cache.Get("price:NEW/USD")
	assert.True(t, found)
}

func TestSQLiteCache_Purge_NoRetention(t *testing.T) {
	cache := newTestSQLiteCache(t, filepath.Join(t.TempDir(), "cache.db"), 0)

	purged, err := cache.Purge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), purged)
}
