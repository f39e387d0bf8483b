package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go-resolver-cache/internal/cache"
	"go-resolver-cache/internal/cache/l1"
	"go-resolver-cache/internal/cache/l2"
	"go-resolver-cache/internal/cache/multi"
	"go-resolver-cache/internal/cache/noop"
	"go-resolver-cache/internal/cache_rules"
	"go-resolver-cache/internal/config"
	"go-resolver-cache/internal/geo"
	"go-resolver-cache/internal/httpserver"
	"go-resolver-cache/internal/interfaces"
	"go-resolver-cache/internal/logging"
	"go-resolver-cache/internal/models"
	"go-resolver-cache/internal/narrative"
	"go-resolver-cache/internal/oracle"
	"go-resolver-cache/internal/resolver"
	"go-resolver-cache/internal/scheduler"
	"go-resolver-cache/internal/sources"
)

const (
	sourceClientTimeout = 30 * time.Second
	rehydrateTimeout    = 30 * time.Second
)

// CompositionRoot holds all application dependencies and wires them together
type CompositionRoot struct {
	// Configuration
	Config    *config.Config
	Logger    *zap.Logger
	TTLConfig interfaces.TTLRulesConfig
	TTLRules  interfaces.TTLClassifier

	// Cache components
	Memory      interfaces.Cache
	Durable     interfaces.DurableCache
	Store       *multi.Store
	purgeRunner *scheduler.Scheduler

	// Consumer adapters
	Oracle    *oracle.Oracle
	History   *geo.History
	Generator *narrative.Generator

	HTTPServer *httpserver.Server
}

// NewCompositionRoot creates and initializes all application dependencies.
//
// Initialization order:
// 1. Configuration and logger
// 2. TTL rules
// 3. Cache store (memory, durable, rehydration)
// 4. Resolvers and consumer adapters
// 5. HTTP Server
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadTTLRules(); err != nil {
		return nil, fmt.Errorf("failed to load TTL rules: %w", err)
	}

	if err := root.initCacheComponents(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	if err := root.initAdapters(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize resolvers: %w", err)
	}

	root.HTTPServer = httpserver.NewServer(root.Oracle, root.History, root.Generator, root.Logger)

	return root, nil
}

// loadConfig loads the application configuration and builds the logger it describes
func (r *CompositionRoot) loadConfig() error {
	bootstrap, err := zap.NewProduction()
	if err != nil {
		return err
	}

	configPath := envOrDefault("RESOLVER_CONFIG_FILE", "/app/resolver_config.yaml")
	cfg, err := config.LoadConfig(configPath, bootstrap)
	if err != nil {
		return err
	}
	_ = bootstrap.Sync()

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	r.Config = cfg
	r.Logger = logger
	return nil
}

// loadTTLRules loads the TTL rules configuration
func (r *CompositionRoot) loadTTLRules() error {
	rulesPath := envOrDefault("RESOLVER_TTL_RULES_FILE", "/app/ttl_rules.yaml")

	ttlConfig, err := cache_rules.LoadTTLRules(rulesPath, r.Logger)
	if err != nil {
		return err
	}

	r.TTLConfig = ttlConfig
	r.TTLRules = cache_rules.NewClassifier(r.Logger, ttlConfig)
	return nil
}

// initCacheComponents builds both layers and rehydrates memory from the durable one
func (r *CompositionRoot) initCacheComponents() error {
	memory, err := l1.NewBigCache(&r.Config.BigCache, r.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize memory cache: %w", err)
	}
	r.Memory = memory
	r.Logger.Info("BigCache initialized", zap.Int("size_mb", r.Config.BigCache.Size))

	if err := r.initDurableCache(); err != nil {
		return fmt.Errorf("failed to initialize durable cache: %w", err)
	}

	r.Store = multi.NewStore(r.Memory, r.Durable, r.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), rehydrateTimeout)
	defer cancel()
	if err := r.Store.Init(ctx, models.Namespaces...); err != nil {
		// continue with a cold memory layer
		r.Logger.Warn("Failed to rehydrate memory cache", zap.Error(err))
	}
	return nil
}

// initDurableCache selects the configured persistence backend
func (r *CompositionRoot) initDurableCache() error {
	persistence := &r.Config.Persistence

	switch persistence.Backend {
	case config.BackendKeyDB:
		keydbURL := GetKeyDBURL(r.Logger)

		client, err := l2.NewRedisKeyDbClient(&persistence.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, running without durable cache", zap.Error(err))
			r.Durable = noop.NewNoOpCache()
			return nil
		}
		r.Durable = l2.NewKeyDBCache(&persistence.KeyDB, persistence.Retention, client, r.Logger)
		r.Logger.Info("KeyDB durable cache initialized")

	case config.BackendSQLite:
		sqliteCache, err := l2.NewSQLiteCache(&persistence.SQLite, persistence.Retention, r.Logger)
		if err != nil {
			return err
		}
		r.Durable = sqliteCache
		r.startPurge(sqliteCache)

	default:
		r.Durable = noop.NewNoOpCache()
		r.Logger.Info("Durable cache disabled")
	}
	return nil
}

// startPurge deletes sqlite rows past the retention window on a schedule
func (r *CompositionRoot) startPurge(sqliteCache *l2.SQLiteCache) {
	if r.Config.Persistence.Retention <= 0 {
		return
	}

	r.purgeRunner = scheduler.New(r.Config.Persistence.PurgeInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.Config.Persistence.SQLite.BusyTimeout)
		defer cancel()

		purged, err := sqliteCache.Purge(ctx)
		if err != nil {
			r.Logger.Warn("Failed to purge SQLite cache", zap.Error(err))
			return
		}
		if purged > 0 {
			r.Logger.Info("Purged SQLite cache entries", zap.Int64("count", purged))
		}
	})
	r.purgeRunner.Start()
}

// initAdapters builds one resolver per namespace and the adapters on top of them
func (r *CompositionRoot) initAdapters() error {
	client := sources.NewHTTPClient(sourceClientTimeout)
	cfg := r.Config

	priceLadder := priceSources(cfg.Price, client, r.Logger)
	geoLadder := geoSources(cfg.Geo, client, r.Logger)
	narrativeLadder := narrativeSources(cfg.Narrative, client, r.Logger)
	if err := checkFallbacks(cfg, usable(priceLadder), usable(geoLadder), usable(narrativeLadder)); err != nil {
		return err
	}

	prices, err := resolver.New(resolver.Config[models.Pair, float64]{
		Namespace: models.NamespacePrice,
		Sources:   priceLadder,
		TTL:       r.TTLConfig.GetTtlForNamespace(models.NamespacePrice),
		TTLRules:  r.TTLRules,
		Mock:      resolver.StaticMocks[models.Pair](oracle.NormalizeMocks(cfg.Price.Mocks), cfg.Price.DefaultMock),
	}, r.Store, r.Logger)
	if err != nil {
		return err
	}

	locations, err := resolver.New(resolver.Config[models.GeoQuery, []models.Location]{
		Namespace: models.NamespaceGeo,
		Sources:   geoLadder,
		TTL:       r.TTLConfig.GetTtlForNamespace(models.NamespaceGeo),
		TTLRules:  r.TTLRules,
		Mock:      resolver.StaticMocks[models.GeoQuery](geoMocks(cfg.Geo), cfg.Geo.DefaultMock),
	}, r.Store, r.Logger)
	if err != nil {
		return err
	}

	narratives, err := resolver.New(resolver.Config[models.NarrativeRequest, string]{
		Namespace: models.NamespaceNarrative,
		Sources:   narrativeLadder,
		TTL:       r.TTLConfig.GetTtlForNamespace(models.NamespaceNarrative),
		TTLRules:  r.TTLRules,
		Mock:      resolver.KeyedMocks(narrativeMocks(cfg.Narrative), cfg.Narrative.DefaultMock, narrative.MockKey),
	}, r.Store, r.Logger)
	if err != nil {
		return err
	}

	r.Oracle = oracle.New(prices, cfg.Price, r.Logger)
	r.History = geo.NewHistory(locations)
	r.Generator = narrative.NewGenerator(narratives, cache.NewKeyBuilder())
	return nil
}

// Cleanup releases every resource and reports all failures together
func (r *CompositionRoot) Cleanup() error {
	var err error

	if r.purgeRunner != nil {
		r.purgeRunner.Stop()
	}

	if bigCache, ok := r.Memory.(*l1.BigCache); ok {
		if closeErr := bigCache.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close memory cache: %w", closeErr))
		}
	}

	if r.Durable != nil {
		if closeErr := r.Durable.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close durable cache: %w", closeErr))
		}
	}

	if r.Logger != nil {
		// Sync on stderr returns EINVAL on linux
		_ = r.Logger.Sync()
	}

	return err
}

// ListenAddress returns the Unix socket path when configured, otherwise the TCP address
func (r *CompositionRoot) ListenAddress() (address string, unix bool) {
	if socketPath := os.Getenv("RESOLVER_SOCKET_PATH"); socketPath != "" {
		return socketPath, true
	}
	if r.Config.Server.SocketPath != "" {
		return r.Config.Server.SocketPath, true
	}
	return r.Config.Server.Address, false
}
