// ABOUTME: The Provider contract every concrete tool pack implements.
// ABOUTME: Providers enumerate descriptors and execute tools by name.

package tools

import (
	"context"
	"encoding/json"
)

// Provider is a cohesive unit supplying one or more tool descriptors and
// their execution logic. Descriptors must be pure and callable before any
// collaborator is wired; Invoke may perform I/O and may be slow, but must
// never panic past the dispatch boundary.
//
// Argument validation is each provider's own responsibility: decode the raw
// JSON into a typed struct once and return ErrInvalidArguments on failure.
type Provider interface {
	Descriptors() []Descriptor
	Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error)
}

// DecodeArgs unmarshals raw tool arguments into a typed struct, mapping
// decode failures to the InvalidArguments error kind.
func DecodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return BadArgsf("%v", err)
	}
	return nil
}
