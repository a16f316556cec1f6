// ABOUTME: Tests for the registry meta-tools, driven through the dispatch engine.
// ABOUTME: Covers list output, enable/enable_categories/enable_ttl/reset round trips.

package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

// newMetaFixture wires a meta provider, a domain provider, and a dispatcher
// the way the host does at startup.
func newMetaFixture(t *testing.T) (*Dispatcher, *Gate, *Catalog) {
	t.Helper()

	gate := NewGate(testLogger())
	gate.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	meta := NewMetaProvider(gate, testLogger())

	domain := &fakeProvider{descriptors: []Descriptor{
		testDescriptor("agent.list", "agent", true),
		testDescriptor("agent.append", "agent", false),
		testDescriptor("telegram.send_message", "telegram", false),
	}}

	catalog, err := NewCatalog(testLogger(), meta, domain)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	meta.BindCatalog(catalog)
	return NewDispatcher(catalog, gate, testLogger()), gate, catalog
}

func invokeJSON(t *testing.T, d *Dispatcher, name, args string, out any) {
	t.Helper()
	res := d.Invoke(context.Background(), name, json.RawMessage(args))
	if res.IsError {
		t.Fatalf("%s failed: %s", name, res.Content)
	}
	if err := json.Unmarshal([]byte(res.Content), out); err != nil {
		t.Fatalf("%s returned unparsable content %q: %v", name, res.Content, err)
	}
}

func TestMetaToolsList(t *testing.T) {
	d, gate, _ := newMetaFixture(t)

	var out listOutput
	invokeJSON(t, d, "tools.list", `{}`, &out)

	if !reflect.DeepEqual(out.Catalog["agent"], []string{"agent.append", "agent.list"}) {
		t.Errorf("unexpected agent category: %v", out.Catalog["agent"])
	}
	if len(out.Catalog["registry"]) != 5 {
		t.Errorf("expected 5 registry tools, got %v", out.Catalog["registry"])
	}
	if out.Descriptions["registry"] == "" {
		t.Error("expected a registry category description")
	}
	if len(out.Enabled) != 0 {
		t.Errorf("expected empty enabled set at startup, got %v", out.Enabled)
	}
	// 5 meta tools + agent.list are baseline.
	if out.BaselineCount != 6 {
		t.Errorf("expected baseline_count 6, got %d", out.BaselineCount)
	}
	if out.AvailableToolCount != 6 {
		t.Errorf("expected available_tool_count 6, got %d", out.AvailableToolCount)
	}

	// The list must reflect live gating state.
	gate.Enable([]string{"telegram.send_message"})
	invokeJSON(t, d, "tools.list", `{}`, &out)
	if !reflect.DeepEqual(out.Enabled, []string{"telegram.send_message"}) {
		t.Errorf("expected live enabled set, got %v", out.Enabled)
	}
	if out.AvailableToolCount != 7 {
		t.Errorf("expected available_tool_count 7 after elevation, got %d", out.AvailableToolCount)
	}
}

func TestMetaToolsEnable(t *testing.T) {
	d, gate, _ := newMetaFixture(t)

	var out struct {
		Enabled []string `json:"enabled"`
	}
	invokeJSON(t, d, "tools.enable", `{"names":["agent.append","telegram.send_message"]}`, &out)
	if len(out.Enabled) != 2 {
		t.Fatalf("expected 2 enabled, got %v", out.Enabled)
	}

	// Replacement, not union.
	invokeJSON(t, d, "tools.enable", `{"names":["agent.append"]}`, &out)
	if !reflect.DeepEqual(out.Enabled, []string{"agent.append"}) {
		t.Errorf("expected replacement semantics, got %v", out.Enabled)
	}
	if gate.IsCallable(testDescriptor("telegram.send_message", "telegram", false)) {
		t.Error("telegram.send_message should have been dropped by the replacement")
	}

	res := d.Invoke(context.Background(), "tools.enable", json.RawMessage(`{}`))
	if !res.IsError {
		t.Error("tools.enable without names should be invalid arguments")
	}
}

func TestMetaToolsEnableCategories(t *testing.T) {
	d, _, catalog := newMetaFixture(t)

	var out struct {
		Enabled           []string `json:"enabled"`
		UnknownCategories []string `json:"unknown_categories"`
	}
	invokeJSON(t, d, "tools.enable_categories", `{"categories":["agent","not_a_real_category"]}`, &out)

	// Category elevation must match enabling the catalog's member list.
	if !reflect.DeepEqual(out.Enabled, catalog.CategoryNames("agent")) {
		t.Errorf("expected enabled == category members, got %v vs %v",
			out.Enabled, catalog.CategoryNames("agent"))
	}
	if !reflect.DeepEqual(out.UnknownCategories, []string{"not_a_real_category"}) {
		t.Errorf("expected unknown-category diagnostic, got %v", out.UnknownCategories)
	}

	// Catalog integrity is untouched by unknown categories.
	if catalog.Len() != 8 {
		t.Errorf("catalog mutated: %d tools", catalog.Len())
	}
}

func TestMetaToolsEnableTTL(t *testing.T) {
	d, gate, _ := newMetaFixture(t)
	gated := testDescriptor("telegram.send_message", "telegram", false)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return now }

	var enable struct {
		Enabled []string `json:"enabled"`
	}
	invokeJSON(t, d, "tools.enable", `{"names":["telegram.send_message"]}`, &enable)

	var out struct {
		ExpiresAt string `json:"expires_at"`
	}
	invokeJSON(t, d, "tools.enable_ttl", `{"minutes":1}`, &out)
	if out.ExpiresAt == "" {
		t.Fatal("expected expires_at in response")
	}

	if !gate.IsCallable(gated) {
		t.Fatal("tool should be callable inside the TTL window")
	}
	now = now.Add(90 * time.Second)
	if gate.IsCallable(gated) {
		t.Error("tool should lapse after the TTL without an explicit reset")
	}

	res := d.Invoke(context.Background(), "tools.enable_ttl", json.RawMessage(`{"minutes":0}`))
	if !res.IsError {
		t.Error("non-positive minutes should be invalid arguments")
	}
}

func TestMetaToolsReset(t *testing.T) {
	d, gate, catalog := newMetaFixture(t)

	gate.Enable([]string{"agent.append", "telegram.send_message"})

	var out struct {
		Status string `json:"status"`
	}
	invokeJSON(t, d, "tools.reset", `{}`, &out)
	if out.Status != "baseline" {
		t.Errorf("unexpected status %q", out.Status)
	}

	// After reset, callability equals the baseline flag for every tool.
	for _, desc := range catalog.All() {
		if gate.IsCallable(desc) != desc.Baseline {
			t.Errorf("tool %s: callable=%v, baseline=%v", desc.Name, gate.IsCallable(desc), desc.Baseline)
		}
	}
}

func TestMetaToolsRequireCatalogBinding(t *testing.T) {
	gate := NewGate(testLogger())
	meta := NewMetaProvider(gate, testLogger())

	// Descriptors are pure and must work before binding.
	if len(meta.Descriptors()) != 5 {
		t.Fatalf("expected 5 meta descriptors, got %d", len(meta.Descriptors()))
	}

	_, err := meta.Invoke(context.Background(), "tools.list", nil)
	if err == nil {
		t.Fatal("expected HostUnavailable before catalog binding")
	}
}
