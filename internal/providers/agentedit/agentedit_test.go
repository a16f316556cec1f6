// ABOUTME: Tests for the agent document provider against a real SQLite store.
// ABOUTME: Covers line edits, search, and append-creates semantics.

package agentedit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/tools"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "hearth.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st, "default")
}

func invoke(t *testing.T, p *Provider, name string, args any) tools.Result {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	res, err := p.Invoke(context.Background(), name, raw)
	require.NoError(t, err)
	return res
}

func TestAppendCreatesDocument(t *testing.T) {
	p := newTestProvider(t)

	res := invoke(t, p, "agent.append", map[string]any{"name": "memory", "text": "likes tea"})
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content, "memory")

	res = invoke(t, p, "agent.read", map[string]any{"name": "memory"})
	assert.Equal(t, "likes tea", res.Content)
}

func TestAppendAddsNewline(t *testing.T) {
	p := newTestProvider(t)

	invoke(t, p, "agent.append", map[string]any{"name": "memory", "text": "first"})
	invoke(t, p, "agent.append", map[string]any{"name": "memory", "text": "second"})

	res := invoke(t, p, "agent.read", map[string]any{"name": "memory"})
	assert.Equal(t, "first\nsecond", res.Content)
}

func TestReplaceAndList(t *testing.T) {
	p := newTestProvider(t)

	invoke(t, p, "agent.replace", map[string]any{"name": "persona", "content": "a\nb\nc"})
	invoke(t, p, "agent.replace", map[string]any{"name": "config", "content": "x"})

	res := invoke(t, p, "agent.list", map[string]any{})
	var out struct {
		Documents []struct {
			Name  string `json:"name"`
			Lines int    `json:"lines"`
		} `json:"documents"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, "config", out.Documents[0].Name)
	assert.Equal(t, "persona", out.Documents[1].Name)
	assert.Equal(t, 3, out.Documents[1].Lines)
}

func TestSearchLines(t *testing.T) {
	p := newTestProvider(t)
	invoke(t, p, "agent.replace", map[string]any{"name": "memory", "content": "alpha\nbeta tea\ngamma\ntea time"})

	res := invoke(t, p, "agent.search_lines", map[string]any{"name": "memory", "query": "tea"})
	var out struct {
		Matches []struct {
			Line int    `json:"line"`
			Text string `json:"text"`
		} `json:"matches"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content), &out))
	require.Equal(t, 2, out.Count)
	assert.Equal(t, 2, out.Matches[0].Line)
	assert.Equal(t, 4, out.Matches[1].Line)
}

func TestUpdateLine(t *testing.T) {
	p := newTestProvider(t)
	invoke(t, p, "agent.replace", map[string]any{"name": "persona", "content": "one\ntwo\nthree"})

	invoke(t, p, "agent.update_line", map[string]any{"name": "persona", "line": 2, "text": "TWO"})

	res := invoke(t, p, "agent.read", map[string]any{"name": "persona"})
	assert.Equal(t, "one\nTWO\nthree", res.Content)
}

func TestUpdateLineOutOfRange(t *testing.T) {
	p := newTestProvider(t)
	invoke(t, p, "agent.replace", map[string]any{"name": "persona", "content": "only"})

	raw, _ := json.Marshal(map[string]any{"name": "persona", "line": 9, "text": "x"})
	_, err := p.Invoke(context.Background(), "agent.update_line", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
	assert.True(t, strings.Contains(err.Error(), "out of range"))
}

func TestReadMissingDocument(t *testing.T) {
	p := newTestProvider(t)

	raw, _ := json.Marshal(map[string]any{"name": "ghost"})
	_, err := p.Invoke(context.Background(), "agent.read", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func TestBaselineFlags(t *testing.T) {
	p := newTestProvider(t)

	baseline := map[string]bool{}
	for _, d := range p.Descriptors() {
		baseline[d.Name] = d.Baseline
	}
	assert.True(t, baseline["agent.list"])
	assert.True(t, baseline["agent.read"])
	assert.False(t, baseline["agent.append"])
	assert.False(t, baseline["agent.replace"])
}
