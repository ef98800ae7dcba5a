package ai

import (
	"context"
	"errors"
	"fmt"
)

// Gateway sends one prompt pair to a text generation service and returns the
// first completion verbatim.
type Gateway interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single system+user prompt exchange. MaxTokens of zero uses the
// gateway default.
type Request struct {
	System    string
	User      string
	MaxTokens int
}

type ErrorKind string

const (
	KindUnconfigured ErrorKind = "unconfigured"
	KindTransport    ErrorKind = "transport_failure"
	KindParse        ErrorKind = "parse_failure"
)

// GenerationError classifies every failure a generation call can end with.
type GenerationError struct {
	Kind  ErrorKind
	Cause error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("generation %s", e.Kind)
	}
	return fmt.Sprintf("generation %s: %v", e.Kind, e.Cause)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

var ErrNotConfigured = errors.New("generation API key not configured")

func unconfigured() error {
	return &GenerationError{Kind: KindUnconfigured, Cause: ErrNotConfigured}
}

// TransportFailure wraps a network, timeout or non-2xx failure.
func TransportFailure(cause error) error {
	return &GenerationError{Kind: KindTransport, Cause: cause}
}

// ParseFailure wraps a decode or schema error on generated content.
func ParseFailure(cause error) error {
	return &GenerationError{Kind: KindParse, Cause: cause}
}

// KindOf returns the failure kind, or "" when err is not a GenerationError.
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}
