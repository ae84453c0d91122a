package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowcraft/llmorch/prompt"
	"github.com/flowcraft/llmorch/transport"
)

// ConfigError, ValidationError, TransportError and ProviderError are
// shared across the prompt/transport/agent/workflow layering; they are
// aliased here so callers of the agent package never need to import the
// lower-level packages just to catch them with errors.As.
type (
	ConfigError     = prompt.ConfigError
	ValidationError = prompt.ValidationError
	TransportError  = transport.TransportError
	ProviderError   = transport.ProviderError
)

// Cancelled is returned when a context is cancelled mid-call, distinct
// from a transport-level Timeout.
var Cancelled = errors.New("agent: cancelled")

var ErrTimeout = transport.ErrTimeout

// DecodeError signals that a provider response body could not be parsed
// as the declared provider response type.
type DecodeError struct {
	Provider string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("agent: decode %s response: %v", e.Provider, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProjectionError signals that structured output could not be validated
// against the declared output type.
type ProjectionError struct {
	TypeName string
	Raw      string
	Err      error
}

func (e *ProjectionError) Error() string {
	return fmt.Sprintf("agent: project response into %s: %v", e.TypeName, e.Err)
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// DependencyFailed is raised only as a workflow task's terminal status
// cause; it is never returned to a top-level caller.
type DependencyFailed struct {
	UpstreamID string
}

func (e *DependencyFailed) Error() string {
	return fmt.Sprintf("agent: dependency %q failed", e.UpstreamID)
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, Cancelled)
}
