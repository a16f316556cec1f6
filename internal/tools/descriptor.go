// ABOUTME: Descriptor, schema, and result types shared by every tool provider.
// ABOUTME: Descriptors are created once at provider registration and never mutated.

package tools

import (
	"encoding/json"
	"fmt"
)

// Property describes a single field of a tool's input schema.
// The closed set of types is string, number, integer, boolean, and array.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// Schema is a tool's input schema: always an object with named properties
// and an optional required list.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// ObjectSchema builds an object schema from properties and required field names.
func ObjectSchema(props map[string]Property, required ...string) Schema {
	if props == nil {
		props = map[string]Property{}
	}
	return Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

// Category names a group of related tools for coarse-grained elevation.
// The description travels on every descriptor so the catalog's category
// listing cannot drift from what is actually registered.
type Category struct {
	Name        string
	Description string
}

// Descriptor is the immutable metadata for one callable tool.
type Descriptor struct {
	// ID is a namespaced identifier unique across systems. Left empty by
	// providers, the catalog derives it from the tool name.
	ID          string
	Name        string
	Description string
	InputSchema Schema
	Category    Category

	// Baseline tools are callable under every gating state.
	Baseline bool
}

// wireDescriptor is the provider-facing JSON shape advertised to the model.
type wireDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
	Category    string `json:"category"`
}

// MarshalJSON renders the descriptor in the advertised wire shape.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireDescriptor{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.InputSchema,
		Category:    d.Category.Name,
	})
}

// Result is the universal invocation envelope. It is the only shape that
// crosses the dispatch boundary in either direction.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"isError"`
}

// Text returns a success result with the given content.
func Text(content string) Result {
	return Result{Content: content}
}

// Textf returns a success result with formatted content.
func Textf(format string, args ...any) Result {
	return Result{Content: fmt.Sprintf(format, args...)}
}

// JSON marshals v and returns it as a success result.
func JSON(v any) (Result, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Result{}, fmt.Errorf("%w: marshaling result: %v", ErrInvalidResponse, err)
	}
	return Result{Content: string(b)}, nil
}
