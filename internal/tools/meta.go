// ABOUTME: Meta-tools provider: tools.list/enable/enable_categories/enable_ttl/reset.
// ABOUTME: Baseline tools letting the model discover and manage its own capability surface.

package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"
)

// metaCategory groups the registry meta-tools. Always baseline so the model
// can widen or narrow its surface even when everything else is gated off.
var metaCategory = Category{
	Name:        "registry",
	Description: "Discover the tool catalog and manage which tools are currently enabled",
}

// MetaProvider mutates the gating policy through the narrow GateController
// interface; it never owns the gate. The catalog is bound after
// construction because the catalog itself is built from this provider's
// descriptors.
type MetaProvider struct {
	gate    GateController
	catalog *Catalog
	logger  *slog.Logger
}

// NewMetaProvider creates the registry meta-tools provider.
func NewMetaProvider(gate GateController, logger *slog.Logger) *MetaProvider {
	return &MetaProvider{gate: gate, logger: logger}
}

// BindCatalog wires the built catalog into the provider. Must be called
// once after NewCatalog; invocations before binding fail with
// ErrHostUnavailable.
func (m *MetaProvider) BindCatalog(c *Catalog) {
	m.catalog = c
}

// Descriptors is pure and callable before the catalog is bound.
func (m *MetaProvider) Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        "tools.list",
			Description: "List the full tool catalog by category, with the currently enabled set and counts",
			InputSchema: ObjectSchema(nil),
			Category:    metaCategory,
			Baseline:    true,
		},
		{
			Name:        "tools.enable",
			Description: "Replace the enabled tool set with the given tool names (baseline tools are always available)",
			InputSchema: ObjectSchema(map[string]Property{
				"names": {Type: "array", Description: "Tool names to enable", Items: &Property{Type: "string"}},
			}, "names"),
			Category: metaCategory,
			Baseline: true,
		},
		{
			Name:        "tools.enable_categories",
			Description: "Enable every tool in the given categories, replacing the previously enabled set",
			InputSchema: ObjectSchema(map[string]Property{
				"categories": {Type: "array", Description: "Category names to enable", Items: &Property{Type: "string"}},
			}, "categories"),
			Category: metaCategory,
			Baseline: true,
		},
		{
			Name:        "tools.enable_ttl",
			Description: "Set how many minutes the current elevation lasts before lapsing back to baseline",
			InputSchema: ObjectSchema(map[string]Property{
				"minutes": {Type: "integer", Description: "Elevation lifetime in minutes"},
			}, "minutes"),
			Category: metaCategory,
			Baseline: true,
		},
		{
			Name:        "tools.reset",
			Description: "Clear all elevation and return to baseline tools only",
			InputSchema: ObjectSchema(nil),
			Category:    metaCategory,
			Baseline:    true,
		},
	}
}

// Invoke executes a meta-tool by name.
func (m *MetaProvider) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	if m.catalog == nil {
		return Result{}, Unavailable("catalog")
	}

	switch name {
	case "tools.list":
		return m.list()
	case "tools.enable":
		return m.enable(args)
	case "tools.enable_categories":
		return m.enableCategories(args)
	case "tools.enable_ttl":
		return m.enableTTL(args)
	case "tools.reset":
		return m.reset()
	default:
		return Result{}, BadArgsf("unknown meta-tool %s", name)
	}
}

type listOutput struct {
	Catalog            map[string][]string `json:"catalog"`
	Descriptions       map[string]string   `json:"descriptions"`
	Enabled            []string            `json:"enabled"`
	BaselineCount      int                 `json:"baseline_count"`
	AvailableToolCount int                 `json:"available_tool_count"`
}

// list is the one read path that must reflect live gating state, not just
// the static catalog.
func (m *MetaProvider) list() (Result, error) {
	enabled := m.gate.Enabled()
	enabledSet := make(map[string]struct{}, len(enabled))
	for _, n := range enabled {
		enabledSet[n] = struct{}{}
	}

	available := 0
	for _, d := range m.catalog.All() {
		if d.Baseline {
			available++
			continue
		}
		if _, ok := enabledSet[d.Name]; ok {
			available++
		}
	}

	return JSON(listOutput{
		Catalog:            m.catalog.ByCategory(),
		Descriptions:       m.catalog.CategoryDescriptions(),
		Enabled:            enabled,
		BaselineCount:      m.catalog.BaselineCount(),
		AvailableToolCount: available,
	})
}

type enableInput struct {
	Names []string `json:"names"`
}

func (m *MetaProvider) enable(args json.RawMessage) (Result, error) {
	var in enableInput
	if err := DecodeArgs(args, &in); err != nil {
		return Result{}, err
	}
	if in.Names == nil {
		return Result{}, BadArgsf("names is required")
	}

	enabled := m.gate.Enable(in.Names)
	return JSON(map[string]any{"enabled": enabled})
}

type enableCategoriesInput struct {
	Categories []string `json:"categories"`
}

func (m *MetaProvider) enableCategories(args json.RawMessage) (Result, error) {
	var in enableCategoriesInput
	if err := DecodeArgs(args, &in); err != nil {
		return Result{}, err
	}
	if in.Categories == nil {
		return Result{}, BadArgsf("categories is required")
	}

	// Unknown categories are reported but do not abort resolution of the
	// remaining valid ones.
	var names []string
	unknown := []string{}
	for _, cat := range in.Categories {
		members := m.catalog.CategoryNames(cat)
		if members == nil {
			unknown = append(unknown, cat)
			continue
		}
		names = append(names, members...)
	}
	sort.Strings(unknown)

	if len(unknown) > 0 {
		m.logger.Warn("unknown categories in enable_categories", "categories", unknown)
	}

	enabled := m.gate.Enable(names)
	return JSON(map[string]any{
		"enabled":            enabled,
		"unknown_categories": unknown,
	})
}

type enableTTLInput struct {
	Minutes int `json:"minutes"`
}

func (m *MetaProvider) enableTTL(args json.RawMessage) (Result, error) {
	var in enableTTLInput
	if err := DecodeArgs(args, &in); err != nil {
		return Result{}, err
	}
	if in.Minutes <= 0 {
		return Result{}, BadArgsf("minutes must be a positive integer")
	}

	expires := m.gate.SetTTL(time.Duration(in.Minutes) * time.Minute)
	return JSON(map[string]any{"expires_at": expires.Format(time.RFC3339)})
}

func (m *MetaProvider) reset() (Result, error) {
	m.gate.Reset()
	return JSON(map[string]any{"enabled": []string{}, "status": "baseline"})
}
