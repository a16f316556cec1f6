// ABOUTME: Workspace provider: file operations confined to a root directory.
// ABOUTME: Every path is resolved against the root; escapes are rejected.

package workspace

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hearthd/hearth/internal/tools"
)

const maxReadBytes = 256 * 1024

var category = tools.Category{
	Name:        "workspace",
	Description: "Read and write files inside the agent workspace",
}

// Provider exposes file tools rooted at a single directory.
type Provider struct {
	root string
}

// New creates the workspace provider rooted at dir.
func New(dir string) *Provider {
	return &Provider{root: filepath.Clean(dir)}
}

// Descriptors lists the workspace tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "workspace.list",
			Description: "List files under a workspace directory",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"path": {Type: "string", Description: "Directory relative to the workspace root (default: root)"},
			}),
			Category: category,
		},
		{
			Name:        "workspace.read",
			Description: "Read a workspace file",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"path": {Type: "string", Description: "File path relative to the workspace root"},
			}, "path"),
			Category: category,
		},
		{
			Name:        "workspace.write",
			Description: "Write a workspace file, creating parent directories",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"path":    {Type: "string", Description: "File path relative to the workspace root"},
				"content": {Type: "string", Description: "File content"},
			}, "path", "content"),
			Category: category,
		},
		{
			Name:        "workspace.delete",
			Description: "Delete a workspace file",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"path": {Type: "string", Description: "File path relative to the workspace root"},
			}, "path"),
			Category: category,
		},
	}
}

// Invoke executes a workspace tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	switch name {
	case "workspace.list":
		return p.list(args)
	case "workspace.read":
		return p.read(args)
	case "workspace.write":
		return p.write(args)
	case "workspace.delete":
		return p.delete(args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown workspace tool %s", name)
	}
}

type pathInput struct {
	Path string `json:"path"`
}

// resolve maps a user path onto the root and rejects escapes.
func (p *Provider) resolve(rel string) (string, error) {
	full := filepath.Join(p.root, rel)
	if full != p.root && !strings.HasPrefix(full, p.root+string(filepath.Separator)) {
		return "", tools.BadArgsf("path escapes workspace: %s", rel)
	}
	return full, nil
}

func (p *Provider) list(args json.RawMessage) (tools.Result, error) {
	var in pathInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	dir, err := p.resolve(in.Path)
	if err != nil {
		return tools.Result{}, err
	}

	type fileInfo struct {
		Path string `json:"path"`
		Size int64  `json:"size"`
		Dir  bool   `json:"dir,omitempty"`
	}
	files := []fileInfo{}
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, _ := filepath.Rel(p.root, path)
		info := fileInfo{Path: rel, Dir: d.IsDir()}
		if !d.IsDir() {
			if fi, err := d.Info(); err == nil {
				info.Size = fi.Size()
			}
		}
		files = append(files, info)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return tools.Result{}, tools.BadArgsf("no such directory: %s", in.Path)
		}
		return tools.Result{}, tools.APIErrf("listing workspace: %v", err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return tools.JSON(map[string]any{"files": files, "count": len(files)})
}

func (p *Provider) read(args json.RawMessage) (tools.Result, error) {
	var in pathInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Path == "" {
		return tools.Result{}, tools.BadArgsf("path is required")
	}
	full, err := p.resolve(in.Path)
	if err != nil {
		return tools.Result{}, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return tools.Result{}, tools.BadArgsf("no such file: %s", in.Path)
		}
		return tools.Result{}, tools.APIErrf("reading %s: %v", in.Path, err)
	}
	if len(data) > maxReadBytes {
		data = append(data[:maxReadBytes], []byte("\n... (truncated)")...)
	}
	return tools.Text(string(data)), nil
}

type writeInput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (p *Provider) write(args json.RawMessage) (tools.Result, error) {
	var in writeInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Path == "" {
		return tools.Result{}, tools.BadArgsf("path is required")
	}
	full, err := p.resolve(in.Path)
	if err != nil {
		return tools.Result{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return tools.Result{}, tools.APIErrf("creating directories: %v", err)
	}
	if err := os.WriteFile(full, []byte(in.Content), 0o644); err != nil {
		return tools.Result{}, tools.APIErrf("writing %s: %v", in.Path, err)
	}
	return tools.Textf("wrote %s (%d bytes)", in.Path, len(in.Content)), nil
}

func (p *Provider) delete(args json.RawMessage) (tools.Result, error) {
	var in pathInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Path == "" {
		return tools.Result{}, tools.BadArgsf("path is required")
	}
	full, err := p.resolve(in.Path)
	if err != nil {
		return tools.Result{}, err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return tools.Result{}, tools.BadArgsf("no such file: %s", in.Path)
		}
		return tools.Result{}, tools.APIErrf("deleting %s: %v", in.Path, err)
	}
	return tools.Textf("deleted %s", in.Path), nil
}

var _ tools.Provider = (*Provider)(nil)
