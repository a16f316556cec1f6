// ABOUTME: Tests for the automation provider: real shell runs and a stub fetcher.
// ABOUTME: Covers output capture, failure envelopes, truncation, and URL checks.

package automation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthd/hearth/internal/tools"
)

type stubFetcher struct {
	text string
	err  error
}

func (s *stubFetcher) FetchText(context.Context, string) (string, error) {
	return s.text, s.err
}

func runShell(t *testing.T, p *Provider, command string) (tools.Result, error) {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"command": command})
	require.NoError(t, err)
	return p.Invoke(context.Background(), "automation.shell", raw)
}

func TestShellCapturesOutput(t *testing.T) {
	p := New(true, nil)

	res, err := runShell(t, p, "echo hello; echo oops >&2")
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content, "hello")
	assert.Contains(t, res.Content, "oops")
}

func TestShellFailureIsErrorEnvelope(t *testing.T) {
	p := New(true, nil)

	res, err := runShell(t, p, "echo partial; exit 3")
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content, "partial")
	assert.Contains(t, res.Content, "exit")
}

func TestShellDisabled(t *testing.T) {
	p := New(false, nil)

	_, err := runShell(t, p, "echo hi")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrHostUnavailable))
}

func TestShellRequiresCommand(t *testing.T) {
	p := New(true, nil)

	_, err := runShell(t, p, "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func TestTruncateCapsOutput(t *testing.T) {
	long := strings.Repeat("x", maxOutputBytes+100)
	got := truncate(long)
	assert.Len(t, got, maxOutputBytes+len("\n... (truncated)"))
	assert.True(t, strings.HasSuffix(got, "(truncated)"))
}

func TestBrowseReturnsPageText(t *testing.T) {
	p := New(true, &stubFetcher{text: "Rendered page body"})

	raw, _ := json.Marshal(map[string]any{"url": "https://example.com"})
	res, err := p.Invoke(context.Background(), "automation.browse", raw)
	require.NoError(t, err)
	assert.Equal(t, "Rendered page body", res.Content)
}

func TestBrowseRejectsBadScheme(t *testing.T) {
	p := New(true, &stubFetcher{})

	raw, _ := json.Marshal(map[string]any{"url": "file:///etc/passwd"})
	_, err := p.Invoke(context.Background(), "automation.browse", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func TestBrowseWithoutFetcher(t *testing.T) {
	p := New(true, nil)

	raw, _ := json.Marshal(map[string]any{"url": "https://example.com"})
	_, err := p.Invoke(context.Background(), "automation.browse", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrHostUnavailable))
}

func TestBrowseUpstreamFailure(t *testing.T) {
	p := New(true, &stubFetcher{err: errors.New("net::ERR_NAME_NOT_RESOLVED")})

	raw, _ := json.Marshal(map[string]any{"url": "https://bad.invalid"})
	_, err := p.Invoke(context.Background(), "automation.browse", raw)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrAPI))
}
