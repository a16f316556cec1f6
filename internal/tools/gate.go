// ABOUTME: Gating policy: which non-baseline tools are currently callable, and until when.
// ABOUTME: In-memory only; all state serialized under one mutex; TTL evaluated lazily.

package tools

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// GateController is the narrow mutation surface handed to the meta-tools
// provider. The host owns the Gate itself.
type GateController interface {
	Enable(names []string) []string
	SetTTL(d time.Duration) time.Time
	Reset()
	Enabled() []string
}

// Gate tracks the elevated tool set. A name is callable iff its descriptor
// is baseline, or the elevated set contains the name and has not expired.
type Gate struct {
	mu        sync.Mutex
	enabled   map[string]struct{} // nil means baseline only
	expiresAt time.Time           // zero means no expiry
	now       func() time.Time
	logger    *slog.Logger
}

var _ GateController = (*Gate)(nil)

// NewGate returns a gate in the baseline-only state.
func NewGate(logger *slog.Logger) *Gate {
	return &Gate{
		now:    time.Now,
		logger: logger,
	}
}

// IsCallable reports whether the described tool may be invoked right now.
func (g *Gate) IsCallable(d Descriptor) bool {
	if d.Baseline {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled == nil || g.expired() {
		return false
	}
	_, ok := g.enabled[d.Name]
	return ok
}

// Enable replaces the elevated set wholesale. Repeated calls narrow or
// replace the surface rather than accumulate it; an existing TTL is
// preserved. Returns the resulting elevated set, sorted.
func (g *Gate) Enable(names []string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	g.enabled = set

	out := sortedNames(set)
	g.logger.Info("tool elevation replaced", "enabled", out, "expires_at", g.expiryAttr())
	return out
}

// SetTTL sets the elevation expiry to now + d, affecting the currently
// elevated set. Returns the new expiry.
func (g *Gate) SetTTL(d time.Duration) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.expiresAt = g.now().Add(d)
	g.logger.Info("tool elevation TTL set", "expires_at", g.expiresAt)
	return g.expiresAt
}

// Reset returns the gate to baseline-only and clears any expiry.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = nil
	g.expiresAt = time.Time{}
	g.logger.Info("tool elevation reset to baseline")
}

// Enabled returns the currently effective elevated set, sorted. An expired
// elevation reports as empty.
func (g *Gate) Enabled() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.enabled == nil || g.expired() {
		return []string{}
	}
	return sortedNames(g.enabled)
}

// ExpiresAt returns the current expiry and whether one is set.
func (g *Gate) ExpiresAt() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expiresAt, !g.expiresAt.IsZero()
}

// expired must be called with g.mu held.
func (g *Gate) expired() bool {
	return !g.expiresAt.IsZero() && !g.now().Before(g.expiresAt)
}

func (g *Gate) expiryAttr() any {
	if g.expiresAt.IsZero() {
		return "none"
	}
	return g.expiresAt
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
