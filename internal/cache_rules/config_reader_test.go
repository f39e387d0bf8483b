package cache_rules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createTempYAMLFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ttl_rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTTLRules_Success(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validYAML := `
ttl_defaults:
  price: 5m
  geo: 30m
  narrative: 1h

ttl_overrides:
  "price:ETH/USD": 1m
`

	config, err := LoadTTLRules(createTempYAMLFile(t, validYAML), logger)

	require.NoError(t, err)
	require.NotNil(t, config)

	ttlConfig, ok := config.(*TTLConfig)
	require.True(t, ok)
	assert.Len(t, ttlConfig.rules.TTLDefaults, 3)

	assert.Equal(t, 5*time.Minute, config.GetTtlForNamespace("price"))
	assert.Equal(t, 30*time.Minute, config.GetTtlForNamespace("geo"))
	assert.Equal(t, time.Hour, config.GetTtlForNamespace("narrative"))

	ttl, ok := config.GetTtlOverride("price:ETH/USD")
	assert.True(t, ok)
	assert.Equal(t, time.Minute, ttl)
}

func TestLoadTTLRules_FileNotFound(t *testing.T) {
	logger := zaptest.NewLogger(t)

	config, err := LoadTTLRules("/nonexistent/file.yaml", logger)

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to open TTL rules file")
}

func TestLoadTTLRules_InvalidYAML(t *testing.T) {
	logger := zaptest.NewLogger(t)

	config, err := LoadTTLRules(createTempYAMLFile(t, "ttl_defaults: [unclosed"), logger)

	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to decode YAML TTL rules")
}

func TestLoadTTLRules_InvalidDuration(t *testing.T) {
	logger := zaptest.NewLogger(t)

	config, err := LoadTTLRules(createTempYAMLFile(t, "ttl_defaults:\n  price: soon\n"), logger)

	assert.Error(t, err)
	assert.Nil(t, config)
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   TTLRules
		wantErr string
	}{
		{
			name:    "missing defaults",
			rules:   TTLRules{},
			wantErr: "missing ttl_defaults section",
		},
		{
			name:    "zero ttl",
			rules:   TTLRules{TTLDefaults: map[string]time.Duration{"price": 0}},
			wantErr: "ttl_defaults.price must be positive",
		},
		{
			name:    "namespaced namespace",
			rules:   TTLRules{TTLDefaults: map[string]time.Duration{"price:x": time.Minute}},
			wantErr: "invalid namespace",
		},
		{
			name: "override without namespace",
			rules: TTLRules{
				TTLDefaults:  map[string]time.Duration{"price": time.Minute},
				TTLOverrides: map[string]time.Duration{"ETH/USD": time.Minute},
			},
			wantErr: "is not a namespaced key",
		},
		{
			name: "negative override",
			rules: TTLRules{
				TTLDefaults:  map[string]time.Duration{"price": time.Minute},
				TTLOverrides: map[string]time.Duration{"price:ETH/USD": -time.Minute},
			},
			wantErr: "must be positive",
		},
		{
			name: "valid",
			rules: TTLRules{
				TTLDefaults:  map[string]time.Duration{"price": time.Minute},
				TTLOverrides: map[string]time.Duration{"price:ETH/USD": time.Second},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRules(&tt.rules)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
