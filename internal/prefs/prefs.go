// ABOUTME: Typed settings store persisted as a TOML file.
// ABOUTME: Settings are registered with a kind and default; sets coerce and persist.

package prefs

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// Kind is the value type of a registered setting.
type Kind string

const (
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
)

// Definition registers one setting: its key, kind, default, and a human
// description surfaced by the settings tools.
type Definition struct {
	Key         string
	Kind        Kind
	Default     any
	Description string
}

// ErrUnknownKey indicates the setting key is not registered.
var ErrUnknownKey = fmt.Errorf("unknown setting")

// Store holds typed settings backed by a TOML file. Values for unset keys
// fall back to the registered default.
type Store struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	defs   map[string]Definition
	values map[string]any
}

// NewStore loads the TOML file at path (if it exists) and registers the
// given definitions. Unregistered keys found in the file are dropped.
func NewStore(path string, defs []Definition, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With("component", "prefs"),
		defs:   make(map[string]Definition, len(defs)),
		values: make(map[string]any),
	}
	for _, d := range defs {
		s.defs[d.Key] = d
	}

	raw := make(map[string]any)
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}
	for key, val := range raw {
		def, ok := s.defs[key]
		if !ok {
			s.logger.Warn("dropping unregistered setting", "key", key)
			continue
		}
		norm, err := normalize(def.Kind, val)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", key, err)
		}
		s.values[key] = norm
	}
	return s, nil
}

// Definitions returns all registered settings sorted by key.
func (s *Store) Definitions() []Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Definition, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Get returns the current value for a registered key, falling back to its
// default when never set.
func (s *Store) Get(key string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	return def.Default, nil
}

// GetString returns a string setting, or its default.
func (s *Store) GetString(key string) string {
	v, err := s.Get(key)
	if err != nil {
		return ""
	}
	str, _ := v.(string)
	return str
}

// GetBool returns a bool setting, or its default.
func (s *Store) GetBool(key string) bool {
	v, err := s.Get(key)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Set coerces raw into the registered kind, stores it, and persists the
// file.
func (s *Store) Set(key, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.defs[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	val, err := coerce(def.Kind, raw)
	if err != nil {
		return err
	}
	s.values[key] = val
	return s.save()
}

// All returns every registered key with its effective value.
func (s *Store) All() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]any, len(s.defs))
	for key, def := range s.defs {
		if v, ok := s.values[key]; ok {
			out[key] = v
		} else {
			out[key] = def.Default
		}
	}
	return out
}

// save must be called with s.mu held.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s.values); err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	return nil
}

func coerce(kind Kind, raw string) (any, error) {
	switch kind {
	case KindString:
		return raw, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a boolean, got %q", raw)
		}
		return b, nil
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("expected a number, got %q", raw)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q", kind)
	}
}

// normalize maps TOML-decoded values onto the registered kind.
func normalize(kind Kind, val any) (any, error) {
	switch kind {
	case KindString:
		if s, ok := val.(string); ok {
			return s, nil
		}
	case KindBool:
		if b, ok := val.(bool); ok {
			return b, nil
		}
	case KindInt:
		if n, ok := val.(int64); ok {
			return n, nil
		}
	case KindFloat:
		switch v := val.(type) {
		case float64:
			return v, nil
		case int64:
			return float64(v), nil
		}
	}
	return nil, fmt.Errorf("has wrong type %T for kind %s", val, kind)
}
