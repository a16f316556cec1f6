// ABOUTME: Capability catalog built once from all registered providers.
// ABOUTME: Indexes name->descriptor, name->provider, category->names; immutable after construction.

package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// idNamespace prefixes derived descriptor IDs for cross-system uniqueness.
const idNamespace = "hearth"

// Catalog aggregates every provider's descriptors into lookup indices.
// Read-only after construction; safe for unsynchronized concurrent reads.
type Catalog struct {
	descriptors map[string]Descriptor
	providers   map[string]Provider
	categories  map[string][]string // category name -> sorted tool names
	descText    map[string]string   // category name -> description
	ordered     []Descriptor        // registration order, for stable listings
}

// NewCatalog builds the catalog by collecting descriptors from every
// provider. Construction fails fast on a duplicate tool name or an input
// schema that does not compile; a half-built catalog is never returned.
func NewCatalog(logger *slog.Logger, providers ...Provider) (*Catalog, error) {
	c := &Catalog{
		descriptors: make(map[string]Descriptor),
		providers:   make(map[string]Provider),
		categories:  make(map[string][]string),
		descText:    make(map[string]string),
	}

	for _, p := range providers {
		for _, d := range p.Descriptors() {
			if d.Name == "" {
				return nil, fmt.Errorf("provider %T registered a descriptor with no name", p)
			}
			if _, exists := c.descriptors[d.Name]; exists {
				return nil, fmt.Errorf("%w: %s", ErrToolCollision, d.Name)
			}
			if err := compileSchema(d); err != nil {
				return nil, fmt.Errorf("tool %s: %w", d.Name, err)
			}
			if d.ID == "" {
				d.ID = idNamespace + ":" + d.Name
			}
			c.descriptors[d.Name] = d
			c.providers[d.Name] = p
			c.categories[d.Category.Name] = append(c.categories[d.Category.Name], d.Name)
			if d.Category.Description != "" {
				c.descText[d.Category.Name] = d.Category.Description
			}
			c.ordered = append(c.ordered, d)
		}
	}

	for _, names := range c.categories {
		sort.Strings(names)
	}

	logger.Info("catalog built",
		"tool_count", len(c.descriptors),
		"category_count", len(c.categories),
		"baseline_count", c.BaselineCount(),
	)
	return c, nil
}

// compileSchema verifies the descriptor's input schema is a valid JSON
// Schema document. Arguments are decoded by providers into typed structs;
// this guards only the structural shape advertised to the model.
func compileSchema(d Descriptor) error {
	raw, err := json.Marshal(d.InputSchema)
	if err != nil {
		return fmt.Errorf("marshaling input schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("decoding input schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("mem://tools/%s.schema.json", d.Name)
	if err := compiler.AddResource(url, doc); err != nil {
		return fmt.Errorf("registering input schema: %w", err)
	}
	if _, err := compiler.Compile(url); err != nil {
		return fmt.Errorf("compiling input schema: %w", err)
	}
	return nil
}

// All returns every descriptor in registration order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Descriptor returns the descriptor for a tool name.
func (c *Catalog) Descriptor(name string) (Descriptor, bool) {
	d, ok := c.descriptors[name]
	return d, ok
}

// Resolve returns the provider that owns the named tool.
func (c *Catalog) Resolve(name string) (Provider, bool) {
	p, ok := c.providers[name]
	return p, ok
}

// ByCategory returns a copy of the category -> sorted tool names index.
func (c *Catalog) ByCategory() map[string][]string {
	out := make(map[string][]string, len(c.categories))
	for cat, names := range c.categories {
		cp := make([]string, len(names))
		copy(cp, names)
		out[cat] = cp
	}
	return out
}

// CategoryNames returns the tool names in one category, or nil if the
// category is unknown.
func (c *Catalog) CategoryNames(category string) []string {
	names, ok := c.categories[category]
	if !ok {
		return nil
	}
	cp := make([]string, len(names))
	copy(cp, names)
	return cp
}

// CategoryDescriptions returns the human description per category, derived
// from the registered descriptors rather than a separately maintained table.
func (c *Catalog) CategoryDescriptions() map[string]string {
	out := make(map[string]string, len(c.descText))
	for cat, text := range c.descText {
		out[cat] = text
	}
	return out
}

// BaselineCount returns how many descriptors are baseline.
func (c *Catalog) BaselineCount() int {
	n := 0
	for _, d := range c.ordered {
		if d.Baseline {
			n++
		}
	}
	return n
}

// Len returns the total number of registered tools.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
