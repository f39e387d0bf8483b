package cache_rules

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"go-resolver-cache/internal/interfaces"
)

// LoadTTLRules loads TTL rules from a YAML file and returns a config reader
func LoadTTLRules(rulesPath string, logger *zap.Logger) (interfaces.TTLRulesConfig, error) {
	logger.Info("Loading TTL rules", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open TTL rules file: %w", err)
	}
	defer file.Close()

	var rules TTLRules
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&rules); err != nil {
		return nil, fmt.Errorf("failed to decode YAML TTL rules: %w", err)
	}

	if err := validateRules(&rules); err != nil {
		return nil, fmt.Errorf("TTL rules validation failed: %w", err)
	}

	logger.Info("TTL rules loaded successfully",
		zap.Int("namespaces", len(rules.TTLDefaults)),
		zap.Int("overrides", len(rules.TTLOverrides)))

	return NewTTLConfig(&rules, logger), nil
}

// validateRules validates the TTL rules structure
func validateRules(rules *TTLRules) error {
	if len(rules.TTLDefaults) == 0 {
		return fmt.Errorf("missing ttl_defaults section")
	}

	for namespace, ttl := range rules.TTLDefaults {
		if namespace == "" || strings.Contains(namespace, ":") {
			return fmt.Errorf("invalid namespace %q in ttl_defaults", namespace)
		}
		if ttl <= 0 {
			return fmt.Errorf("ttl_defaults.%s must be positive, got %s", namespace, ttl)
		}
	}

	for key, ttl := range rules.TTLOverrides {
		if !strings.Contains(key, ":") {
			return fmt.Errorf("ttl_overrides key %q is not a namespaced key", key)
		}
		if ttl <= 0 {
			return fmt.Errorf("ttl_overrides.%s must be positive, got %s", key, ttl)
		}
	}

	return nil
}
