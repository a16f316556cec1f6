// ABOUTME: Dispatch engine: the single entry point between model output and tool execution.
// ABOUTME: Resolves, gate-checks, delegates, and normalizes every outcome into a Result.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Dispatcher routes tool invocations to providers. Gating is enforced here
// at invocation time in addition to the advertisement-side filtering, so a
// stale tool list cannot widen the callable surface.
type Dispatcher struct {
	catalog *Catalog
	gate    *Gate
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher over an immutable catalog and a gate.
func NewDispatcher(catalog *Catalog, gate *Gate, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog: catalog,
		gate:    gate,
		logger:  logger,
	}
}

// Invoke executes the named tool with raw JSON arguments. Every outcome is
// normalized into the Result envelope; no provider error or panic escapes.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) Result {
	desc, ok := d.catalog.Descriptor(name)
	if !ok {
		d.logger.Debug("dispatch to unknown tool", "tool", name)
		return Result{
			Content: fmt.Sprintf("%s: %s", ErrUnknownTool, name),
			IsError: true,
		}
	}

	// The gate lock is held only for this check, never while the provider
	// runs, so slow providers cannot block other dispatches or meta-tool
	// mutations.
	if !d.gate.IsCallable(desc) {
		d.logger.Info("dispatch blocked by gating", "tool", name)
		return Result{
			Content: fmt.Sprintf("%s: %s (call tools.enable or tools.enable_categories first)", ErrToolDisabled, name),
			IsError: true,
		}
	}

	provider, ok := d.catalog.Resolve(name)
	if !ok {
		// Catalog invariant: descriptor and provider indices are built
		// together, so this branch is unreachable in practice.
		return Result{
			Content: fmt.Sprintf("%s: %s", ErrUnknownTool, name),
			IsError: true,
		}
	}

	d.logger.Info("dispatching tool", "tool", name, "category", desc.Category.Name)
	result, err := d.safeInvoke(ctx, provider, name, args)
	if err != nil {
		d.logger.Warn("tool returned error", "tool", name, "error", err)
		return Result{Content: err.Error(), IsError: true}
	}
	return result
}

// Advertised returns the descriptors currently visible to the model:
// baseline tools plus the unexpired elevated set.
func (d *Dispatcher) Advertised() []Descriptor {
	var out []Descriptor
	for _, desc := range d.catalog.All() {
		if d.gate.IsCallable(desc) {
			out = append(out, desc)
		}
	}
	return out
}

// safeInvoke delegates to the provider, converting panics into errors so
// no provider failure mode crosses the dispatch boundary unhandled.
func (d *Dispatcher) safeInvoke(ctx context.Context, p Provider, name string, args json.RawMessage) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("provider panicked", "tool", name, "panic", r)
			err = fmt.Errorf("tool %s panicked: %v", name, r)
		}
	}()
	return p.Invoke(ctx, name, args)
}
