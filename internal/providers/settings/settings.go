// ABOUTME: Settings provider: typed preference get/set/list over the TOML prefs store.
// ABOUTME: Only registered keys are accepted; values are coerced per definition.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hearthd/hearth/internal/prefs"
	"github.com/hearthd/hearth/internal/tools"
)

var category = tools.Category{
	Name:        "settings",
	Description: "Read and change the agent's persistent settings",
}

// Provider exposes settings tools over a prefs store.
type Provider struct {
	store *prefs.Store
}

// New creates the settings provider.
func New(store *prefs.Store) *Provider {
	return &Provider{store: store}
}

// Descriptors lists the settings tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "settings.list",
			Description: "List all settings with their current values and descriptions",
			InputSchema: tools.ObjectSchema(nil),
			Category:    category,
		},
		{
			Name:        "settings.get",
			Description: "Read one setting by key",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"key": {Type: "string", Description: "Setting key"},
			}, "key"),
			Category: category,
		},
		{
			Name:        "settings.set",
			Description: "Change a setting; the value is parsed per the setting's type",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"key":   {Type: "string", Description: "Setting key"},
				"value": {Type: "string", Description: "New value as text"},
			}, "key", "value"),
			Category: category,
		},
	}
}

// Invoke executes a settings tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	if p.store == nil {
		return tools.Result{}, tools.Unavailable("settings store")
	}
	switch name {
	case "settings.list":
		return p.list()
	case "settings.get":
		return p.get(args)
	case "settings.set":
		return p.set(args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown settings tool %s", name)
	}
}

func (p *Provider) list() (tools.Result, error) {
	values := p.store.All()
	type entry struct {
		Key         string `json:"key"`
		Kind        string `json:"kind"`
		Value       any    `json:"value"`
		Description string `json:"description"`
	}
	defs := p.store.Definitions()
	entries := make([]entry, 0, len(defs))
	for _, d := range defs {
		entries = append(entries, entry{
			Key:         d.Key,
			Kind:        string(d.Kind),
			Value:       values[d.Key],
			Description: d.Description,
		})
	}
	return tools.JSON(map[string]any{"settings": entries})
}

type getInput struct {
	Key string `json:"key"`
}

func (p *Provider) get(args json.RawMessage) (tools.Result, error) {
	var in getInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Key == "" {
		return tools.Result{}, tools.BadArgsf("key is required")
	}
	val, err := p.store.Get(in.Key)
	if err != nil {
		if errors.Is(err, prefs.ErrUnknownKey) {
			return tools.Result{}, tools.BadArgsf("unknown setting: %s", in.Key)
		}
		return tools.Result{}, tools.APIErrf("reading setting: %v", err)
	}
	return tools.JSON(map[string]any{"key": in.Key, "value": val})
}

type setInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (p *Provider) set(args json.RawMessage) (tools.Result, error) {
	var in setInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Key == "" {
		return tools.Result{}, tools.BadArgsf("key is required")
	}
	if err := p.store.Set(in.Key, in.Value); err != nil {
		if errors.Is(err, prefs.ErrUnknownKey) {
			return tools.Result{}, tools.BadArgsf("unknown setting: %s", in.Key)
		}
		return tools.Result{}, tools.BadArgsf("setting %s: %v", in.Key, err)
	}
	val, _ := p.store.Get(in.Key)
	return tools.Textf("%s = %s", in.Key, fmt.Sprint(val)), nil
}

var _ tools.Provider = (*Provider)(nil)
