package sources

import (
	"net/http"
	"strings"
	"time"

	"go-resolver-cache/internal/config"
)

// descriptor carries the identity every remote source shares
type descriptor struct {
	name     string
	url      string
	apiKey   string
	priority int
	timeout  time.Duration
}

func newDescriptor(cfg config.SourceConfig) descriptor {
	return descriptor{
		name:     cfg.Name,
		url:      strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.APIKey,
		priority: cfg.Priority,
		timeout:  cfg.Timeout,
	}
}

// Name returns the source name used in logs and metrics
func (d descriptor) Name() string {
	return d.name
}

// Priority returns the position in the fallback ladder, lower first
func (d descriptor) Priority() int {
	return d.priority
}

// Timeout returns the per-attempt deadline
func (d descriptor) Timeout() time.Duration {
	return d.timeout
}

// NewHTTPClient returns the client shared by remote sources.
// Deadlines come from the caller's context, the client timeout is a backstop.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
