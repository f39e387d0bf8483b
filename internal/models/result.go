package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Tier is the provenance label attached to a resolved value
type Tier string

const (
	TierLive   Tier = "live"
	TierCached Tier = "cached"
	TierMock   Tier = "mock"
)

// rank orders tiers from most to least trustworthy
func (t Tier) rank() int {
	switch t {
	case TierLive:
		return 0
	case TierCached:
		return 1
	default:
		return 2
	}
}

// Worse returns the less trustworthy of two tiers (live > cached > mock)
func Worse(a, b Tier) Tier {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// UnmarshalYAML implements custom YAML unmarshaling for Tier
func (t *Tier) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	switch str {
	case "live", "cached", "mock":
		*t = Tier(str)
		return nil
	default:
		return fmt.Errorf("invalid tier '%s': must be one of 'live', 'cached', 'mock'", str)
	}
}

// Result is what every resolution returns: a value plus an honest freshness tag.
// AsOf is the time of the data, zero for the mock tier.
type Result[T any] struct {
	Value T
	Tier  Tier
	AsOf  time.Time
}

// HasTimestamp reports whether AsOf carries a real time
func (r Result[T]) HasTimestamp() bool {
	return !r.AsOf.IsZero()
}

type resultJSON[T any] struct {
	Value T          `json:"value"`
	Tier  Tier       `json:"tier"`
	AsOf  *time.Time `json:"as_of"`
}

// MarshalJSON renders a mock result's AsOf as null
func (r Result[T]) MarshalJSON() ([]byte, error) {
	out := resultJSON[T]{Value: r.Value, Tier: r.Tier}
	if r.HasTimestamp() {
		asOf := r.AsOf.UTC()
		out.AsOf = &asOf
	}
	return json.Marshal(out)
}
