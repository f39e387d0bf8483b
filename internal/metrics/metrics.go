package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolutions by the tier that answered
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_total",
			Help: "Total number of resolutions by answering tier",
		},
		[]string{"namespace", "tier"},
	)

	// Source attempts by outcome (success, unavailable, malformed, timeout, skipped)
	SourceAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_attempts_total",
			Help: "Total number of remote source attempts",
		},
		[]string{"namespace", "source", "outcome"},
	)

	SourceFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Duration of remote source fetches, including abandoned ones",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"namespace", "source"},
	)

	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache layer operations",
		},
		[]string{"layer", "operation", "result"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache layer errors",
		},
		[]string{"layer", "kind"},
	)

	CacheRehydrated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_rehydrated_entries_total",
			Help: "Entries loaded from the durable layer into memory at start-up",
		},
		[]string{"layer"},
	)

	// Memory layer capacity, only l1 is reported
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "Cache capacity in bytes",
		},
		[]string{"layer"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries held by a cache layer",
		},
		[]string{"layer"},
	)
)

// RecordResolution records which tier answered a resolution
func RecordResolution(namespace, tier string) {
	Resolutions.WithLabelValues(namespace, tier).Inc()
}

// RecordSourceAttempt records the outcome of one source attempt
func RecordSourceAttempt(namespace, source, outcome string) {
	SourceAttempts.WithLabelValues(namespace, source, outcome).Inc()
}

// TimeSourceFetch returns a timer function for measuring a source fetch
func TimeSourceFetch(namespace, source string) func() {
	timer := prometheus.NewTimer(SourceFetchDuration.WithLabelValues(namespace, source))
	return func() {
		timer.ObserveDuration()
	}
}

// RecordCacheOperation records a get/set on a cache layer (result: hit, miss, ok)
func RecordCacheOperation(layer, operation, result string) {
	CacheOperations.WithLabelValues(layer, operation, result).Inc()
}

// RecordCacheError records a cache error with layer and kind (encode, decode, upstream)
func RecordCacheError(layer, kind string) {
	CacheErrors.WithLabelValues(layer, kind).Inc()
}

// RecordRehydrated records how many entries were rehydrated from a layer
func RecordRehydrated(layer string, count int) {
	CacheRehydrated.WithLabelValues(layer).Add(float64(count))
}

// UpdateCacheCapacity updates capacity and entry count of a layer
func UpdateCacheCapacity(layer string, capacity, entries int64) {
	CacheCapacity.WithLabelValues(layer).Set(float64(capacity))
	CacheEntries.WithLabelValues(layer).Set(float64(entries))
}
