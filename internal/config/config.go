package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-resolver-cache/internal/models"
)

// Persistence backends
const (
	BackendKeyDB  = "keydb"
	BackendSQLite = "sqlite"
	BackendNone   = "none"
)

// Config represents the main configuration structure
type Config struct {
	Logging     LoggingConfig     `yaml:"logging"`
	Server      ServerConfig      `yaml:"server"`
	BigCache    BigCacheConfig    `yaml:"bigcache"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Price       PriceConfig       `yaml:"price"`
	Geo         GeoConfig         `yaml:"geo"`
	Narrative   NarrativeConfig   `yaml:"narrative"`
}

// LoggingConfig controls the zap logger and optional file rotation
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format" validate:"oneof=json console"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ServerConfig controls where the HTTP API listens
type ServerConfig struct {
	Address    string `yaml:"address"`
	SocketPath string `yaml:"socket_path"` // takes precedence over Address when set
}

// BigCacheConfig configures the in-memory layer
type BigCacheConfig struct {
	Size         int           `yaml:"size" validate:"gt=0"` // MB
	Shards       int           `yaml:"shards" validate:"gt=0"`
	Retention    time.Duration `yaml:"retention"`
	CleanWindow  time.Duration `yaml:"clean_window"`
	MaxEntrySize int           `yaml:"max_entry_size"`
}

// PersistenceConfig configures the durable layer
type PersistenceConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=keydb sqlite none"`
	Retention     time.Duration `yaml:"retention"`      // 0 keeps entries until overwritten
	PurgeInterval time.Duration `yaml:"purge_interval"` // sqlite only
	KeyDB         KeyDBConfig   `yaml:"keydb"`
	SQLite        SQLiteConfig  `yaml:"sqlite"`
}

// KeyDBConfig configures the KeyDB/Redis client
type KeyDBConfig struct {
	Connection struct {
		ConnectTimeout time.Duration `yaml:"connect_timeout"`
		SendTimeout    time.Duration `yaml:"send_timeout"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
	} `yaml:"connection"`
	Keepalive struct {
		PoolSize       int           `yaml:"pool_size"`
		MaxIdleTimeout time.Duration `yaml:"max_idle_timeout"`
	} `yaml:"keepalive"`
	ScanCount int64 `yaml:"scan_count"`
}

// GetReadTimeout returns the read timeout for single-key operations
func (c *KeyDBConfig) GetReadTimeout() time.Duration {
	return c.Connection.ReadTimeout
}

// GetSendTimeout returns the write timeout for single-key operations
func (c *KeyDBConfig) GetSendTimeout() time.Duration {
	return c.Connection.SendTimeout
}

// SQLiteConfig configures the embedded durable layer
type SQLiteConfig struct {
	Path        string        `yaml:"path"`
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// SourceConfig is shared by every remote source descriptor
type SourceConfig struct {
	Name     string        `yaml:"name"`
	URL      string        `yaml:"url" validate:"omitempty,url"`
	APIKey   string        `yaml:"api_key"`
	Priority int           `yaml:"priority" validate:"gte=0"`
	Timeout  time.Duration `yaml:"timeout"`
	Disabled bool          `yaml:"disabled"`
}

// FeedConfig describes one on-chain price feed
type FeedConfig struct {
	Address  string `yaml:"address" validate:"required,startswith=0x"`
	Decimals int    `yaml:"decimals" validate:"gte=0,lte=36"`
}

// ChainlinkConfig configures the on-chain price feed source
type ChainlinkConfig struct {
	SourceConfig `yaml:",inline"`
	MaxAge       time.Duration         `yaml:"max_age"`
	Feeds        map[string]FeedConfig `yaml:"feeds" validate:"dive"` // keyed by BASE/QUOTE
}

// AggregatorConfig configures the public aggregator API source
type AggregatorConfig struct {
	SourceConfig `yaml:",inline"`
	AssetIDs     map[string]string `yaml:"asset_ids"`     // symbol -> aggregator id
	VsCurrencies []string          `yaml:"vs_currencies"` // quotable currencies
}

// PaidConfig configures the keyed market-data API source
type PaidConfig struct {
	SourceConfig `yaml:",inline"`
}

// DefaultDisplayPrecision is used when display_precision is not set
const DefaultDisplayPrecision = 6

// PriceConfig configures the price oracle adapter
type PriceConfig struct {
	DisplayPrecision *int               `yaml:"display_precision" validate:"omitempty,gte=0,lte=15"`
	DirectPairs      []string           `yaml:"direct_pairs"`
	Chainlink        ChainlinkConfig    `yaml:"chainlink"`
	Aggregator       AggregatorConfig   `yaml:"aggregator"`
	Paid             PaidConfig         `yaml:"paid"`
	Mocks            map[string]float64 `yaml:"mocks"` // keyed by BASE/QUOTE
	DefaultMock      float64            `yaml:"default_mock"`
}

// GeoConfig configures the geo-history adapter
type GeoConfig struct {
	Tracking    SourceConfig                 `yaml:"tracking"`
	Geocoder    SourceConfig                 `yaml:"geocoder"`
	Mocks       map[string][]models.Location `yaml:"mocks"` // keyed by product id
	DefaultMock []models.Location            `yaml:"default_mock"`
}

// LLMProviderConfig configures one chat-completion provider
type LLMProviderConfig struct {
	SourceConfig `yaml:",inline"`
	Model        string  `yaml:"model"`
	MaxTokens    int     `yaml:"max_tokens" validate:"gt=0"`
	Temperature  float64 `yaml:"temperature" validate:"gte=0,lte=2"`
}

// NarrativeConfig configures the narrative generator adapter
type NarrativeConfig struct {
	Providers   []LLMProviderConfig `yaml:"providers" validate:"dive"`
	Mocks       map[string]string   `yaml:"mocks"` // keyed by crop
	DefaultMock string              `yaml:"default_mock"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyEnv()
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// applyEnv lets secrets come from the environment instead of the config file
func (c *Config) applyEnv() {
	if key := os.Getenv("PAID_API_KEY"); key != "" {
		c.Price.Paid.APIKey = key
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		for i := range c.Narrative.Providers {
			if c.Narrative.Providers[i].APIKey == "" {
				c.Narrative.Providers[i].APIKey = key
			}
		}
	}
	if url := os.Getenv("RPC_URL"); url != "" {
		c.Price.Chainlink.URL = url
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB == 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups == 0 {
			c.Logging.MaxBackups = 5
		}
		if c.Logging.MaxAgeDays == 0 {
			c.Logging.MaxAgeDays = 30
		}
	}

	if c.Server.Address == "" && c.Server.SocketPath == "" {
		c.Server.Address = ":8080"
	}

	if c.BigCache.Size == 0 {
		c.BigCache.Size = 64
	}
	if c.BigCache.Shards == 0 {
		c.BigCache.Shards = 64
	}
	if c.BigCache.Retention == 0 {
		c.BigCache.Retention = 7 * 24 * time.Hour
	}
	if c.BigCache.MaxEntrySize == 0 {
		c.BigCache.MaxEntrySize = 64 * 1024
	}

	if c.Persistence.Backend == "" {
		c.Persistence.Backend = BackendSQLite
	}
	kdb := &c.Persistence.KeyDB
	if kdb.Connection.ConnectTimeout == 0 {
		kdb.Connection.ConnectTimeout = 2 * time.Second
	}
	if kdb.Connection.SendTimeout == 0 {
		kdb.Connection.SendTimeout = time.Second
	}
	if kdb.Connection.ReadTimeout == 0 {
		kdb.Connection.ReadTimeout = time.Second
	}
	if kdb.Keepalive.PoolSize == 0 {
		kdb.Keepalive.PoolSize = 10
	}
	if kdb.Keepalive.MaxIdleTimeout == 0 {
		kdb.Keepalive.MaxIdleTimeout = time.Minute
	}
	if kdb.ScanCount == 0 {
		kdb.ScanCount = 500
	}
	if c.Persistence.PurgeInterval == 0 {
		c.Persistence.PurgeInterval = time.Hour
	}
	if c.Persistence.SQLite.Path == "" {
		c.Persistence.SQLite.Path = "resolver-cache.db"
	}
	if c.Persistence.SQLite.BusyTimeout == 0 {
		c.Persistence.SQLite.BusyTimeout = 5 * time.Second
	}

	c.Price.applyDefaults()
	c.Geo.applyDefaults()
	c.Narrative.applyDefaults()
}

func (p *PriceConfig) applyDefaults() {
	if p.DisplayPrecision == nil {
		precision := DefaultDisplayPrecision
		p.DisplayPrecision = &precision
	}
	p.Chainlink.applySourceDefaults("chainlink", 0, 2*time.Second)
	p.Aggregator.applySourceDefaults("aggregator", 1, 3*time.Second)
	p.Paid.applySourceDefaults("paid", 2, 3*time.Second)
	if p.Chainlink.MaxAge == 0 {
		p.Chainlink.MaxAge = time.Hour
	}
	for pair, feed := range p.Chainlink.Feeds {
		if feed.Decimals == 0 {
			feed.Decimals = 8
			p.Chainlink.Feeds[pair] = feed
		}
	}
	if len(p.Aggregator.VsCurrencies) == 0 {
		p.Aggregator.VsCurrencies = []string{models.BridgeCurrency}
	}
}

// Precision returns the configured display precision. An explicit 0 rounds to integers.
func (p PriceConfig) Precision() int {
	if p.DisplayPrecision == nil {
		return DefaultDisplayPrecision
	}
	return *p.DisplayPrecision
}

func (g *GeoConfig) applyDefaults() {
	g.Tracking.applySourceDefaults("tracking", 0, 3*time.Second)
	g.Geocoder.applySourceDefaults("geocoder", 1, 3*time.Second)
}

func (n *NarrativeConfig) applyDefaults() {
	for i := range n.Providers {
		p := &n.Providers[i]
		p.applySourceDefaults(fmt.Sprintf("llm-%d", i), i, 15*time.Second)
		if p.MaxTokens == 0 {
			p.MaxTokens = 400
		}
	}
}

func (s *SourceConfig) applySourceDefaults(name string, priority int, timeout time.Duration) {
	if s.Name == "" {
		s.Name = name
		if s.Priority == 0 {
			s.Priority = priority
		}
	}
	if s.Timeout == 0 {
		s.Timeout = timeout
	}
}

// Validate checks struct tags, then the pair syntax of every configured pair
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	for _, p := range c.Price.DirectPairs {
		if _, err := models.ParsePair(p); err != nil {
			return fmt.Errorf("price.direct_pairs: %w", err)
		}
	}
	for p := range c.Price.Mocks {
		if _, err := models.ParsePair(p); err != nil {
			return fmt.Errorf("price.mocks: %w", err)
		}
	}
	for p := range c.Price.Chainlink.Feeds {
		if _, err := models.ParsePair(p); err != nil {
			return fmt.Errorf("price.chainlink.feeds: %w", err)
		}
	}
	return nil
}
