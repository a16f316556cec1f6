// ABOUTME: Closed error taxonomy surfaced by providers and normalized by the dispatcher.
// ABOUTME: Nothing outside this set may cross the dispatch boundary unwrapped.

package tools

import (
	"errors"
	"fmt"
)

// ErrUnknownTool indicates the name has no registered provider.
var ErrUnknownTool = errors.New("unknown tool")

// ErrToolDisabled indicates the tool exists but is not currently elevated.
var ErrToolDisabled = errors.New("tool disabled")

// ErrToolCollision indicates two providers registered the same tool name.
var ErrToolCollision = errors.New("tool name collision")

// ErrInvalidArguments indicates the caller supplied malformed input.
// Safe to retry immediately with corrected arguments.
var ErrInvalidArguments = errors.New("invalid arguments")

// ErrMissingAPIKey indicates a user-actionable configuration gap for an
// upstream service. Not retryable until configuration changes.
var ErrMissingAPIKey = errors.New("missing API key")

// ErrAPI indicates an upstream dependency call failed. Transient; never
// retried automatically inside this core.
var ErrAPI = errors.New("upstream error")

// ErrInvalidResponse indicates an upstream response could not be parsed.
var ErrInvalidResponse = errors.New("invalid upstream response")

// ErrHostUnavailable indicates a required collaborator was not wired into
// the provider. A wiring bug, not user-actionable.
var ErrHostUnavailable = errors.New("collaborator unavailable")

// BadArgsf wraps ErrInvalidArguments with a reason.
func BadArgsf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}

// MissingKey wraps ErrMissingAPIKey with the service name.
func MissingKey(service string) error {
	return fmt.Errorf("%w: %s", ErrMissingAPIKey, service)
}

// APIErrf wraps ErrAPI with upstream detail.
func APIErrf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAPI, fmt.Sprintf(format, args...))
}

// BadResponsef wraps ErrInvalidResponse with detail.
func BadResponsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidResponse, fmt.Sprintf(format, args...))
}

// Unavailable wraps ErrHostUnavailable with the missing dependency name.
func Unavailable(dependency string) error {
	return fmt.Errorf("%w: %s", ErrHostUnavailable, dependency)
}
