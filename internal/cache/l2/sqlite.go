package l2

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/metrics"
	"go-resolver-cache/internal/models"
)

const sqliteLayer = "sqlite"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    key         TEXT PRIMARY KEY,
    value       BLOB NOT NULL,
    written_at  INTEGER NOT NULL,
    ttl_millis  INTEGER NOT NULL,
    stored_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_stored_at ON cache_entries(stored_at);
`

// Ensure SQLiteCache implements interfaces.DurableCache
var _ interfaces.DurableCache = (*SQLiteCache)(nil)

// SQLiteCache implements the durable layer on an embedded SQLite file
type SQLiteCache struct {
	db        *sql.DB
	timeout   time.Duration
	retention time.Duration
	logger    *zap.Logger
}

// NewSQLiteCache opens (or creates) the database at cfg.Path and applies the schema.
// A zero retention keeps entries until overwritten.
func NewSQLiteCache(cfg *config.SQLiteConfig, retention time.Duration, logger *zap.Logger) (*SQLiteCache, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
	}
	// a single writer connection avoids SQLITE_BUSY under concurrent Set
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.BusyTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	logger.Info("Opened SQLite cache", zap.String("path", cfg.Path))

	return &SQLiteCache{
		db:        db,
		timeout:   cfg.BusyTimeout,
		retention: retention,
		logger:    logger,
	}, nil
}

// Get retrieves an entry regardless of freshness
func (sc *SQLiteCache) Get(key string) (*models.CacheEntry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), sc.timeout)
	defer cancel()

	var entry models.CacheEntry
	var value []byte
	var storedAt int64
	err := sc.db.QueryRowContext(ctx,
		`SELECT value, written_at, ttl_millis, stored_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &entry.WrittenAt, &entry.TTLMillis, &storedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			sc.logger.Error("SQLite cache get error", zap.String("key", key), zap.Error(err))
			metrics.RecordCacheError(sqliteLayer, "upstream")
		}
		metrics.RecordCacheOperation(sqliteLayer, "get", "miss")
		return nil, false
	}

	if sc.expired(storedAt, time.Now()) {
		metrics.RecordCacheOperation(sqliteLayer, "get", "miss")
		return nil, false
	}

	entry.Value = value
	metrics.RecordCacheOperation(sqliteLayer, "get", "hit")
	return &entry, true
}

// Set upserts the entry
func (sc *SQLiteCache) Set(key string, entry *models.CacheEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), sc.timeout)
	defer cancel()

	_, err := sc.db.ExecContext(ctx, `
INSERT INTO cache_entries (key, value, written_at, ttl_millis, stored_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    written_at = excluded.written_at,
    ttl_millis = excluded.ttl_millis,
    stored_at = excluded.stored_at`,
		key, []byte(entry.Value), entry.WrittenAt, entry.TTLMillis, time.Now().UnixMilli())
	if err != nil {
		sc.logger.Error("Failed to set SQLite cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(sqliteLayer, "upstream")
		return
	}
	metrics.RecordCacheOperation(sqliteLayer, "set", "ok")
}

// Delete removes the entry
func (sc *SQLiteCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), sc.timeout)
	defer cancel()

	if _, err := sc.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		sc.logger.Error("Failed to delete SQLite cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Iterate calls fn for every retained entry whose key starts with prefix
func (sc *SQLiteCache) Iterate(ctx context.Context, prefix string, fn func(key string, entry *models.CacheEntry) error) error {
	rows, err := sc.db.QueryContext(ctx,
		`SELECT key, value, written_at, ttl_millis, stored_at FROM cache_entries WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%")
	if err != nil {
		metrics.RecordCacheError(sqliteLayer, "upstream")
		return fmt.Errorf("failed to query sqlite cache entries: %w", err)
	}

	// collect first: fn may write back through the same single connection
	type row struct {
		key   string
		entry *models.CacheEntry
	}
	var collected []row
	now := time.Now()
	for rows.Next() {
		var r row
		var value []byte
		var storedAt int64
		r.entry = &models.CacheEntry{}
		if err := rows.Scan(&r.key, &value, &r.entry.WrittenAt, &r.entry.TTLMillis, &storedAt); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan sqlite cache entry: %w", err)
		}
		if sc.expired(storedAt, now) {
			continue
		}
		r.entry.Value = value
		collected = append(collected, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate sqlite cache entries: %w", err)
	}
	_ = rows.Close()

	for _, r := range collected {
		if err := fn(r.key, r.entry); err != nil {
			return err
		}
	}
	return nil
}

// Purge deletes entries stored longer ago than the retention window
func (sc *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	if sc.retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-sc.retention).UnixMilli()
	res, err := sc.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE stored_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge sqlite cache entries: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database
func (sc *SQLiteCache) Close() error {
	return sc.db.Close()
}

func (sc *SQLiteCache) expired(storedAt int64, now time.Time) bool {
	return sc.retention > 0 && now.Sub(time.UnixMilli(storedAt)) > sc.retention
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
