package models

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable covers network failures, timeouts, 5xx and missing data.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedResponse covers parse and shape mismatches. Never trusted, even partially.
	ErrMalformedResponse = errors.New("malformed response")
)

// Unavailable tags err as ErrSourceUnavailable for the named source
func Unavailable(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", source, ErrSourceUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", source, ErrSourceUnavailable, err)
}

// Malformed tags err as ErrMalformedResponse for the named source
func Malformed(source string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", source, ErrMalformedResponse)
	}
	return fmt.Errorf("%s: %w: %w", source, ErrMalformedResponse, err)
}

// ErrorKind is the label used for a failed source attempt
type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable"
	KindMalformed   ErrorKind = "malformed"
	KindTimeout     ErrorKind = "timeout"
)

// Classify maps an error onto one of the recognised kinds.
// Anything unrecognised is normalised to unavailable.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	default:
		return KindUnavailable
	}
}

// ErrTimeout marks a source abandoned at its timeout. It is a flavour of unavailable.
var ErrTimeout = fmt.Errorf("%w: timed out", ErrSourceUnavailable)

// ConfigurationError is raised when a component is built with an unusable configuration.
// It is fatal and only ever surfaces at construction time.
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Reason)
}

// NewConfigurationError creates a ConfigurationError
func NewConfigurationError(component, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Component: component, Reason: fmt.Sprintf(format, args...)}
}
