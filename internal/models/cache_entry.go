package models

import (
	"encoding/json"
	"time"
)

// CacheEntry is the flat record stored for every resolved key.
// Value is only ever written from a successful live fetch.
type CacheEntry struct {
	Value     json.RawMessage `json:"value"`
	WrittenAt int64           `json:"writtenAt"` // unix milliseconds
	TTLMillis int64           `json:"ttlMillis"`
}

// NewCacheEntry builds an entry written at the given instant
func NewCacheEntry(value []byte, writtenAt time.Time, ttl time.Duration) *CacheEntry {
	return &CacheEntry{
		Value:     json.RawMessage(value),
		WrittenAt: writtenAt.UnixMilli(),
		TTLMillis: ttl.Milliseconds(),
	}
}

// WrittenTime returns WrittenAt as time.Time
func (e *CacheEntry) WrittenTime() time.Time {
	return time.UnixMilli(e.WrittenAt)
}

// TTL returns the validity window of the entry
func (e *CacheEntry) TTL() time.Duration {
	return time.Duration(e.TTLMillis) * time.Millisecond
}

// IsFreshAt reports whether now - writtenAt < ttl
func (e *CacheEntry) IsFreshAt(now time.Time) bool {
	return now.UnixMilli()-e.WrittenAt < e.TTLMillis
}

// IsFresh reports whether the entry is still within its TTL
func (e *CacheEntry) IsFresh() bool {
	return e.IsFreshAt(time.Now())
}

// Age returns how long ago the entry was written
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenTime())
}
