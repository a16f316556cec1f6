// ABOUTME: Tests for the sessions provider running real PTY-backed shells.
// ABOUTME: Covers the interactive round trip, caps, and lifecycle cleanup.

package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthd/hearth/internal/tools"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p := New(2)
	t.Cleanup(p.Close)
	return p
}

func invoke(t *testing.T, p *Provider, name string, args any) tools.Result {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	res, err := p.Invoke(context.Background(), name, raw)
	require.NoError(t, err)
	return res
}

func startSession(t *testing.T, p *Provider, command string) string {
	t.Helper()
	res := invoke(t, p, "sessions.start", map[string]any{"command": command})
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	require.NotEmpty(t, out.ID)
	return out.ID
}

// readUntil polls sessions.read until the needle shows up or the deadline hits.
func readUntil(t *testing.T, p *Provider, id, needle string) string {
	t.Helper()
	var collected strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		res := invoke(t, p, "sessions.read", map[string]any{"id": id})
		collected.WriteString(res.Content)
		if strings.Contains(collected.String(), needle) {
			return collected.String()
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("never saw %q in session output: %q", needle, collected.String())
	return ""
}

func TestInteractiveRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	id := startSession(t, p, "cat")

	res := invoke(t, p, "sessions.send", map[string]any{"id": id, "input": "ping"})
	out := res.Content
	if !strings.Contains(out, "ping") {
		out += readUntil(t, p, id, "ping")
	}
	assert.Contains(t, out, "ping")

	invoke(t, p, "sessions.stop", map[string]any{"id": id})
}

func TestSessionExitIsReported(t *testing.T) {
	p := newTestProvider(t)
	id := startSession(t, p, "echo done")

	out := readUntil(t, p, id, "session exited")
	assert.Contains(t, out, "done")
}

func TestSendToExitedSession(t *testing.T) {
	p := newTestProvider(t)
	id := startSession(t, p, "true")
	readUntil(t, p, id, "session exited")

	raw, _ := json.Marshal(map[string]any{"id": id, "input": "x"})
	_, err := p.Invoke(context.Background(), "sessions.send", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func TestSessionCap(t *testing.T) {
	p := newTestProvider(t)
	startSession(t, p, "sleep 30")
	startSession(t, p, "sleep 30")

	raw, _ := json.Marshal(map[string]any{"command": "sleep 30"})
	_, err := p.Invoke(context.Background(), "sessions.start", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
	assert.Contains(t, err.Error(), "too many live sessions")
}

func TestCapFreesAfterExit(t *testing.T) {
	p := newTestProvider(t)
	id := startSession(t, p, "true")
	startSession(t, p, "sleep 30")
	readUntil(t, p, id, "session exited")

	// The exited session is pruned, leaving room.
	startSession(t, p, "sleep 30")
}

func TestListSessions(t *testing.T) {
	p := newTestProvider(t)
	id := startSession(t, p, "sleep 30")

	res := invoke(t, p, "sessions.list", map[string]any{})
	var out struct {
		Sessions []struct {
			ID      string `json:"id"`
			Command string `json:"command"`
			Live    bool   `json:"live"`
		} `json:"sessions"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, id, out.Sessions[0].ID)
	assert.Equal(t, "sleep 30", out.Sessions[0].Command)
	assert.True(t, out.Sessions[0].Live)
}

func TestUnknownSession(t *testing.T) {
	p := newTestProvider(t)

	raw, _ := json.Marshal(map[string]any{"id": "ghost"})
	_, err := p.Invoke(context.Background(), "sessions.read", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}
