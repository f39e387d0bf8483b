package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-resolver-cache/internal/cache"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/metrics"
	"go-resolver-cache/internal/models"
)

const (
	outcomeSuccess = "success"
	outcomeSkipped = "skipped"
)

// Resolver runs the live -> cached -> mock ladder for one namespace
type Resolver[P any, T any] struct {
	namespace  string
	sources    []interfaces.Source[P, T]
	ttl        time.Duration
	ttlRules   interfaces.TTLClassifier
	mock       MockFunc[P, T]
	store      interfaces.CacheStore
	keyBuilder interfaces.KeyBuilder
	group      singleflight.Group
	logger     *zap.Logger
	now        func() time.Time
}

// New validates cfg and builds a Resolver. The returned error is always a *models.ConfigurationError.
func New[P any, T any](cfg Config[P, T], store interfaces.CacheStore, logger *zap.Logger) (*Resolver[P, T], error) {
	if err := cfg.validate(store); err != nil {
		return nil, err
	}

	sources := make([]interfaces.Source[P, T], len(cfg.Sources))
	copy(sources, cfg.Sources)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() < sources[j].Priority()
	})

	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name()
	}
	logger.Info("Resolver configured",
		zap.String("namespace", cfg.Namespace),
		zap.Strings("sources", names),
		zap.Duration("ttl", cfg.TTL),
		zap.Bool("mock", cfg.Mock != nil))

	return &Resolver[P, T]{
		namespace:  cfg.Namespace,
		sources:    sources,
		ttl:        cfg.TTL,
		ttlRules:   cfg.TTLRules,
		mock:       cfg.Mock,
		store:      store,
		keyBuilder: cache.NewKeyBuilder(),
		logger:     logger.With(zap.String("namespace", cfg.Namespace)),
		now:        time.Now,
	}, nil
}

// Namespace returns the cache namespace of the resolver
func (r *Resolver[P, T]) Namespace() string {
	return r.namespace
}

// Resolve returns the best available value for id. It never fails: when every source
// fails it serves the cached entry regardless of age, and without one the mock.
// Concurrent calls for the same id share one ladder run. If ctx ends first the
// caller gets the cached or mock tier while the ladder finishes in the background.
func (r *Resolver[P, T]) Resolve(ctx context.Context, id string, params P) models.Result[T] {
	key, err := r.keyBuilder.Build(r.namespace, id)
	if err != nil {
		r.logger.Warn("Cannot build cache key, resolving without cache", zap.String("id", id), zap.Error(err))
		result := r.resolve(ctx, "", id, params)
		metrics.RecordResolution(r.namespace, string(result.Tier))
		return result
	}

	if ctx.Err() != nil {
		result := r.fallback(key, id, params)
		metrics.RecordResolution(r.namespace, string(result.Tier))
		return result
	}

	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.resolve(context.WithoutCancel(ctx), key, id, params), nil
	})

	var result models.Result[T]
	select {
	case res := <-ch:
		result = res.Val.(models.Result[T])
	case <-ctx.Done():
		r.logger.Debug("Caller gave up, serving fallback", zap.String("key", key), zap.Error(ctx.Err()))
		result = r.fallback(key, id, params)
	}

	metrics.RecordResolution(r.namespace, string(result.Tier))
	return result
}

// Cached returns the stored value for id regardless of freshness
func (r *Resolver[P, T]) Cached(id string) (models.Result[T], bool) {
	key, err := r.keyBuilder.Build(r.namespace, id)
	if err != nil {
		return models.Result[T]{}, false
	}
	return r.fromCache(key)
}

// Mock returns the static fallback for a lookup
func (r *Resolver[P, T]) Mock(id string, params P) (models.Result[T], bool) {
	if r.mock == nil {
		return models.Result[T]{}, false
	}
	value, ok := r.mock(id, params)
	if !ok {
		return models.Result[T]{}, false
	}
	return models.Result[T]{Value: value, Tier: models.TierMock}, true
}

// Store writes value for id as if it came from a live fetch
func (r *Resolver[P, T]) Store(id string, value T) {
	key, err := r.keyBuilder.Build(r.namespace, id)
	if err != nil {
		return
	}
	r.writeThrough(key, id, value)
}

func (r *Resolver[P, T]) resolve(ctx context.Context, key, id string, params P) models.Result[T] {
	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			r.logger.Debug("Context done, skipping remaining sources", zap.String("key", key), zap.Error(err))
			break
		}

		if skip, reason := r.shouldSkip(src, params); skip {
			r.logger.Debug("Skipping source", zap.String("source", src.Name()), zap.String("reason", reason))
			metrics.RecordSourceAttempt(r.namespace, src.Name(), outcomeSkipped)
			continue
		}

		value, err := r.attempt(ctx, src, params)
		if err != nil {
			kind := models.Classify(err)
			r.logger.Warn("Source failed",
				zap.String("source", src.Name()),
				zap.String("key", key),
				zap.String("kind", string(kind)),
				zap.Error(err))
			metrics.RecordSourceAttempt(r.namespace, src.Name(), string(kind))
			continue
		}

		metrics.RecordSourceAttempt(r.namespace, src.Name(), outcomeSuccess)
		r.logger.Debug("Resolved live", zap.String("source", src.Name()), zap.String("key", key))

		if key != "" {
			r.writeThrough(key, id, value)
		}
		return models.Result[T]{Value: value, Tier: models.TierLive, AsOf: r.now()}
	}

	return r.fallback(key, id, params)
}

// attempt races one fetch against the source timeout. The fetch runs in its own
// goroutine with a buffered result so an abandoned fetch never blocks.
func (r *Resolver[P, T]) attempt(ctx context.Context, src interfaces.Source[P, T], params P) (T, error) {
	var zero T

	attemptCtx, cancel := context.WithTimeout(ctx, src.Timeout())
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)

	stopTimer := metrics.TimeSourceFetch(r.namespace, src.Name())
	go func() {
		defer stopTimer()
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: models.Unavailable(src.Name(), fmt.Errorf("panic: %v", p))}
			}
		}()
		value, err := src.Fetch(attemptCtx, params)
		done <- outcome{value: value, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return zero, normalize(src.Name(), out.err)
		}
		return out.value, nil
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			return zero, models.Unavailable(src.Name(), ctx.Err())
		}
		return zero, fmt.Errorf("%s: %w after %s", src.Name(), models.ErrTimeout, src.Timeout())
	}
}

func (r *Resolver[P, T]) shouldSkip(src interfaces.Source[P, T], params P) (bool, string) {
	if a, ok := src.(interfaces.Availability); ok && !a.Available() {
		return true, "unavailable"
	}
	if s, ok := src.(interfaces.ParamSupport[P]); ok && !s.Supports(params) {
		return true, "unsupported parameters"
	}
	return false, ""
}

func (r *Resolver[P, T]) fallback(key, id string, params P) models.Result[T] {
	if key != "" {
		if result, ok := r.fromCache(key); ok {
			return result
		}
	}

	if result, ok := r.Mock(id, params); ok {
		r.logger.Info("Serving mock", zap.String("id", id))
		return result
	}

	r.logger.Error("No source, cache entry or mock for id", zap.String("id", id))
	var zero T
	return models.Result[T]{Value: zero, Tier: models.TierMock}
}

func (r *Resolver[P, T]) fromCache(key string) (models.Result[T], bool) {
	entry, found := r.store.Get(key)
	if !found {
		return models.Result[T]{}, false
	}

	var value T
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		r.logger.Error("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(r.namespace, "decode")
		return models.Result[T]{}, false
	}

	r.logger.Debug("Serving cached",
		zap.String("key", key),
		zap.Bool("fresh", r.store.IsFresh(entry)),
		zap.Duration("age", entry.Age(r.now())))
	return models.Result[T]{Value: value, Tier: models.TierCached, AsOf: entry.WrittenTime()}, true
}

func (r *Resolver[P, T]) writeThrough(key, id string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to encode live value", zap.String("key", key), zap.Error(err))
		metrics.RecordCacheError(r.namespace, "encode")
		return
	}
	r.store.Set(key, data, r.ttlFor(id))
}

func (r *Resolver[P, T]) ttlFor(id string) time.Duration {
	if r.ttlRules != nil {
		if ttl := r.ttlRules.GetTtl(r.namespace, id); ttl > 0 {
			return ttl
		}
	}
	return r.ttl
}

// normalize makes sure every failure carries one of the two source error kinds
func normalize(source string, err error) error {
	if errors.Is(err, models.ErrSourceUnavailable) || errors.Is(err, models.ErrMalformedResponse) {
		return err
	}
	return models.Unavailable(source, err)
}
