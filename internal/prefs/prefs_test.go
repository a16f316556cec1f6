// ABOUTME: Tests for the TOML-backed settings store: coercion, persistence, defaults.

package prefs

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefs() []Definition {
	return []Definition{
		{Key: "voice", Kind: KindString, Default: "neutral", Description: "TTS voice name"},
		{Key: "notifications", Kind: KindBool, Default: true, Description: "Enable notifications"},
		{Key: "max_results", Kind: KindInt, Default: int64(10), Description: "Search result cap"},
		{Key: "temperature", Kind: KindFloat, Default: 0.7, Description: "Sampling temperature"},
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewStore(path, testDefs(), logger)
	require.NoError(t, err)
	return s, path
}

func TestDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Equal(t, "neutral", s.GetString("voice"))
	assert.True(t, s.GetBool("notifications"))

	v, err := s.Get("max_results")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	_, err = s.Get("bogus")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSetCoercesAndPersists(t *testing.T) {
	s, path := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, s.Set("voice", "warm"))
	require.NoError(t, s.Set("notifications", "false"))
	require.NoError(t, s.Set("max_results", "25"))
	require.NoError(t, s.Set("temperature", "0.2"))

	// A fresh store sees the persisted values.
	reloaded, err := NewStore(path, testDefs(), logger)
	require.NoError(t, err)
	assert.Equal(t, "warm", reloaded.GetString("voice"))
	assert.False(t, reloaded.GetBool("notifications"))
	v, err := reloaded.Get("max_results")
	require.NoError(t, err)
	assert.Equal(t, int64(25), v)
}

func TestSetRejectsBadValues(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Error(t, s.Set("notifications", "kinda"))
	assert.Error(t, s.Set("max_results", "many"))
	assert.ErrorIs(t, s.Set("bogus", "x"), ErrUnknownKey)
}

func TestAllListsEffectiveValues(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Set("voice", "warm"))

	all := s.All()
	assert.Equal(t, "warm", all["voice"])
	assert.Equal(t, true, all["notifications"])
	assert.Len(t, all, 4)
}

func TestUnregisteredKeysDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	first, err := NewStore(path, append(testDefs(), Definition{
		Key: "legacy", Kind: KindString, Default: "",
	}), logger)
	require.NoError(t, err)
	require.NoError(t, first.Set("legacy", "old"))

	// Reopening without the legacy definition drops the stale key.
	second, err := NewStore(path, testDefs(), logger)
	require.NoError(t, err)
	_, err = second.Get("legacy")
	assert.True(t, errors.Is(err, ErrUnknownKey))
}
