package interfaces

import (
	"context"
	"time"
)

// Source is one prioritised way of obtaining a value live.
// Fetch must fail only with models.ErrSourceUnavailable or models.ErrMalformedResponse.
type Source[P any, T any] interface {
	Name() string
	Priority() int // lower is tried first
	Timeout() time.Duration
	Fetch(ctx context.Context, params P) (T, error)
}

// Availability is implemented by sources with a static precondition, e.g. a configured API key
type Availability interface {
	Available() bool
}

// ParamSupport is implemented by sources that only serve part of the parameter space
type ParamSupport[P any] interface {
	Supports(params P) bool
}
