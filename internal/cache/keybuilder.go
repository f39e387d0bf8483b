package cache

import (
	"crypto/md5"
	"errors"
	"fmt"
	"strings"

	"go-resolver-cache/internal/interfaces"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a namespaced cache key: namespace:id
func (kb *KeyBuilderImpl) Build(namespace, id string) (string, error) {
	if namespace == "" {
		return "", errors.New("namespace cannot be empty")
	}

	if strings.Contains(namespace, ":") {
		return "", fmt.Errorf("namespace '%s' must not contain ':'", namespace)
	}

	if id == "" {
		return "", errors.New("id cannot be empty")
	}

	return fmt.Sprintf("%s:%s", namespace, id), nil
}

// Hash creates an MD5 digest of the normalised parts joined by '|'
func (kb *KeyBuilderImpl) Hash(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}

	hasher := md5.New()
	hasher.Write([]byte(strings.Join(normalized, "|")))
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Prefix returns the key prefix shared by every key of a namespace
func Prefix(namespace string) string {
	return namespace + ":"
}
