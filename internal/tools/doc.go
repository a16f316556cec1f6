// Package tools provides the capability registry, gating policy, and
// dispatch engine that sit between model output and real-world side
// effects.
//
// # Overview
//
// Every feature area of the host is a Provider: it enumerates immutable
// tool Descriptors and executes tools by name. At startup all providers are
// aggregated into a Catalog with three indices (name to descriptor, name to
// provider, category to names). Construction fails fast on a tool name
// collision or an input schema that does not compile.
//
// # Gating
//
// The Gate holds the elevation state: a nullable set of enabled names and
// an optional expiry. A tool is callable iff its descriptor is baseline, or
// the enabled set contains it and has not expired. Enable replaces the set
// wholesale; TTL expiry is evaluated lazily at each check.
//
// # Dispatch
//
// The Dispatcher is the single entry point:
//
//  1. Resolve the provider via the catalog; unknown names fail.
//  2. Check the gate (the only step that takes the gate lock).
//  3. Delegate to the provider; panics are recovered.
//  4. Normalize every outcome into the {content, isError} envelope.
//
// Gating is enforced both when advertising tools to the model and again at
// invocation time.
//
// # Meta-tools
//
// MetaProvider exposes tools.list, tools.enable, tools.enable_categories,
// tools.enable_ttl, and tools.reset as ordinary baseline tools, so the
// model can always manage its own capability surface. It mutates the gate
// only through the narrow GateController interface.
package tools
