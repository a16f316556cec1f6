// ABOUTME: Tests for catalog construction: collision detection, schema compilation, indices.
// ABOUTME: Also defines the fake provider shared by the package tests.

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

// fakeProvider is a configurable in-memory provider for tests.
type fakeProvider struct {
	descriptors []Descriptor
	invoke      func(ctx context.Context, name string, args json.RawMessage) (Result, error)
}

func (f *fakeProvider) Descriptors() []Descriptor { return f.descriptors }

func (f *fakeProvider) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	if f.invoke == nil {
		return Text("ok:" + name), nil
	}
	return f.invoke(ctx, name, args)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDescriptor(name, category string, baseline bool) Descriptor {
	return Descriptor{
		Name:        name,
		Description: "test tool " + name,
		InputSchema: ObjectSchema(map[string]Property{
			"value": {Type: "string"},
		}),
		Category: Category{Name: category, Description: category + " tools"},
		Baseline: baseline,
	}
}

func TestCatalogBuild(t *testing.T) {
	t.Run("indexes descriptors and providers", func(t *testing.T) {
		p := &fakeProvider{descriptors: []Descriptor{
			testDescriptor("agent.list", "agent", true),
			testDescriptor("agent.append", "agent", false),
		}}
		q := &fakeProvider{descriptors: []Descriptor{
			testDescriptor("telegram.send_message", "telegram", false),
		}}

		c, err := NewCatalog(testLogger(), p, q)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Len() != 3 {
			t.Errorf("expected 3 tools, got %d", c.Len())
		}
		if got, ok := c.Resolve("telegram.send_message"); !ok || got != q {
			t.Error("expected telegram.send_message to resolve to its provider")
		}
		d, ok := c.Descriptor("agent.list")
		if !ok {
			t.Fatal("agent.list descriptor not found")
		}
		if !d.Baseline {
			t.Error("agent.list should be baseline")
		}
	})

	t.Run("fails fast on name collision", func(t *testing.T) {
		p := &fakeProvider{descriptors: []Descriptor{testDescriptor("dup", "a", false)}}
		q := &fakeProvider{descriptors: []Descriptor{testDescriptor("dup", "b", false)}}

		_, err := NewCatalog(testLogger(), p, q)
		if err == nil {
			t.Fatal("expected collision error")
		}
		if !errors.Is(err, ErrToolCollision) {
			t.Errorf("expected ErrToolCollision, got %v", err)
		}
	})

	t.Run("fails on unnamed descriptor", func(t *testing.T) {
		p := &fakeProvider{descriptors: []Descriptor{{InputSchema: ObjectSchema(nil)}}}
		if _, err := NewCatalog(testLogger(), p); err == nil {
			t.Fatal("expected error for empty tool name")
		}
	})

	t.Run("fails on invalid input schema", func(t *testing.T) {
		d := testDescriptor("bad.schema", "misc", false)
		d.InputSchema.Properties = map[string]Property{
			"field": {Type: "no-such-type"},
		}
		p := &fakeProvider{descriptors: []Descriptor{d}}

		if _, err := NewCatalog(testLogger(), p); err == nil {
			t.Fatal("expected schema compilation error")
		}
	})

	t.Run("derives namespaced IDs", func(t *testing.T) {
		p := &fakeProvider{descriptors: []Descriptor{testDescriptor("agent.read", "agent", true)}}
		c, err := NewCatalog(testLogger(), p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		d, _ := c.Descriptor("agent.read")
		if d.ID != "hearth:agent.read" {
			t.Errorf("expected derived ID, got %q", d.ID)
		}
	})
}

func TestCatalogCategories(t *testing.T) {
	p := &fakeProvider{descriptors: []Descriptor{
		testDescriptor("b.two", "beta", false),
		testDescriptor("b.one", "beta", false),
		testDescriptor("a.one", "alpha", true),
	}}
	c, err := NewCatalog(testLogger(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	byCat := c.ByCategory()
	if !reflect.DeepEqual(byCat["beta"], []string{"b.one", "b.two"}) {
		t.Errorf("expected sorted beta members, got %v", byCat["beta"])
	}
	if !reflect.DeepEqual(byCat["alpha"], []string{"a.one"}) {
		t.Errorf("unexpected alpha members: %v", byCat["alpha"])
	}

	if got := c.CategoryNames("nope"); got != nil {
		t.Errorf("expected nil for unknown category, got %v", got)
	}

	descs := c.CategoryDescriptions()
	if descs["alpha"] != "alpha tools" {
		t.Errorf("unexpected alpha description: %q", descs["alpha"])
	}

	if c.BaselineCount() != 1 {
		t.Errorf("expected 1 baseline tool, got %d", c.BaselineCount())
	}
}

func TestDescriptorWireShape(t *testing.T) {
	d := testDescriptor("agent.read", "agent", true)
	d.ID = "hearth:agent.read"

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(b, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if wire["name"] != "agent.read" || wire["id"] != "hearth:agent.read" {
		t.Errorf("unexpected wire identity: %v", wire)
	}
	if wire["category"] != "agent" {
		t.Errorf("expected category name on the wire, got %v", wire["category"])
	}
	schema, ok := wire["inputSchema"].(map[string]any)
	if !ok || schema["type"] != "object" {
		t.Errorf("expected object input schema, got %v", wire["inputSchema"])
	}
}
