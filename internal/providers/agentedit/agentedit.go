// ABOUTME: Agent document provider: persona/memory/config text blobs with line-level edits.
// ABOUTME: Read paths are baseline; mutating tools require elevation.

package agentedit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/tools"
)

var category = tools.Category{
	Name:        "agent",
	Description: "Read and edit the agent's persona, memory, and config documents",
}

// Provider edits per-agent text blobs through the blob store.
type Provider struct {
	blobs   store.BlobStore
	agentID string
}

// New creates the agent document provider scoped to one agent ID.
func New(blobs store.BlobStore, agentID string) *Provider {
	return &Provider{blobs: blobs, agentID: agentID}
}

// Descriptors lists the agent document tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "agent.list",
			Description: "List the agent's documents (persona, memory, config, ...)",
			InputSchema: tools.ObjectSchema(nil),
			Category:    category,
			Baseline:    true,
		},
		{
			Name:        "agent.read",
			Description: "Read one agent document in full",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"name": {Type: "string", Description: "Document name"},
			}, "name"),
			Category: category,
			Baseline: true,
		},
		{
			Name:        "agent.append",
			Description: "Append text to an agent document, creating it if missing",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"name": {Type: "string", Description: "Document name"},
				"text": {Type: "string", Description: "Text to append"},
			}, "name", "text"),
			Category: category,
		},
		{
			Name:        "agent.replace",
			Description: "Replace an agent document's entire content",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"name":    {Type: "string", Description: "Document name"},
				"content": {Type: "string", Description: "New full content"},
			}, "name", "content"),
			Category: category,
		},
		{
			Name:        "agent.search_lines",
			Description: "Find lines in an agent document containing a substring",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"name":  {Type: "string", Description: "Document name"},
				"query": {Type: "string", Description: "Substring to search for"},
			}, "name", "query"),
			Category: category,
		},
		{
			Name:        "agent.update_line",
			Description: "Replace a single line of an agent document by line number",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"name": {Type: "string", Description: "Document name"},
				"line": {Type: "integer", Description: "1-based line number"},
				"text": {Type: "string", Description: "Replacement line"},
			}, "name", "line", "text"),
			Category: category,
		},
	}
}

// Invoke executes an agent document tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	if p.blobs == nil {
		return tools.Result{}, tools.Unavailable("blob store")
	}

	switch name {
	case "agent.list":
		return p.list(ctx)
	case "agent.read":
		return p.read(ctx, args)
	case "agent.append":
		return p.append(ctx, args)
	case "agent.replace":
		return p.replace(ctx, args)
	case "agent.search_lines":
		return p.searchLines(ctx, args)
	case "agent.update_line":
		return p.updateLine(ctx, args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown agent tool %s", name)
	}
}

func (p *Provider) list(ctx context.Context) (tools.Result, error) {
	blobs, err := p.blobs.ListBlobs(ctx, p.agentID)
	if err != nil {
		return tools.Result{}, tools.APIErrf("listing documents: %v", err)
	}
	type docInfo struct {
		Name  string `json:"name"`
		Lines int    `json:"lines"`
	}
	docs := make([]docInfo, 0, len(blobs))
	for _, b := range blobs {
		docs = append(docs, docInfo{Name: b.Name, Lines: lineCount(b.Content)})
	}
	return tools.JSON(map[string]any{"documents": docs, "count": len(docs)})
}

type readInput struct {
	Name string `json:"name"`
}

func (p *Provider) read(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in readInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Name == "" {
		return tools.Result{}, tools.BadArgsf("name is required")
	}
	blob, err := p.getBlob(ctx, in.Name)
	if err != nil {
		return tools.Result{}, err
	}
	return tools.Text(blob.Content), nil
}

type appendInput struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

func (p *Provider) append(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in appendInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Name == "" || in.Text == "" {
		return tools.Result{}, tools.BadArgsf("name and text are required")
	}

	blob, err := p.blobs.GetBlob(ctx, p.agentID, in.Name)
	if err != nil {
		// Appending to a missing document creates it.
		blob = &store.Blob{AgentID: p.agentID, Name: in.Name}
	}
	if blob.Content != "" && !strings.HasSuffix(blob.Content, "\n") {
		blob.Content += "\n"
	}
	blob.Content += in.Text
	if err := p.blobs.PutBlob(ctx, blob); err != nil {
		return tools.Result{}, tools.APIErrf("saving document: %v", err)
	}
	return tools.Textf("appended to %s (%d lines)", in.Name, lineCount(blob.Content)), nil
}

type replaceInput struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (p *Provider) replace(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in replaceInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Name == "" {
		return tools.Result{}, tools.BadArgsf("name is required")
	}
	blob := &store.Blob{AgentID: p.agentID, Name: in.Name, Content: in.Content}
	if err := p.blobs.PutBlob(ctx, blob); err != nil {
		return tools.Result{}, tools.APIErrf("saving document: %v", err)
	}
	return tools.Textf("replaced %s (%d lines)", in.Name, lineCount(in.Content)), nil
}

type searchLinesInput struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

func (p *Provider) searchLines(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in searchLinesInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Name == "" || in.Query == "" {
		return tools.Result{}, tools.BadArgsf("name and query are required")
	}
	blob, err := p.getBlob(ctx, in.Name)
	if err != nil {
		return tools.Result{}, err
	}

	type match struct {
		Line int    `json:"line"`
		Text string `json:"text"`
	}
	var matches []match
	for i, line := range strings.Split(blob.Content, "\n") {
		if strings.Contains(line, in.Query) {
			matches = append(matches, match{Line: i + 1, Text: line})
		}
	}
	return tools.JSON(map[string]any{"matches": matches, "count": len(matches)})
}

type updateLineInput struct {
	Name string `json:"name"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

func (p *Provider) updateLine(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in updateLineInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Name == "" {
		return tools.Result{}, tools.BadArgsf("name is required")
	}
	blob, err := p.getBlob(ctx, in.Name)
	if err != nil {
		return tools.Result{}, err
	}

	lines := strings.Split(blob.Content, "\n")
	if in.Line < 1 || in.Line > len(lines) {
		return tools.Result{}, tools.BadArgsf("line %d out of range (1-%d)", in.Line, len(lines))
	}
	lines[in.Line-1] = in.Text
	blob.Content = strings.Join(lines, "\n")
	if err := p.blobs.PutBlob(ctx, blob); err != nil {
		return tools.Result{}, tools.APIErrf("saving document: %v", err)
	}
	return tools.Textf("updated line %d of %s", in.Line, in.Name), nil
}

func (p *Provider) getBlob(ctx context.Context, name string) (*store.Blob, error) {
	blob, err := p.blobs.GetBlob(ctx, p.agentID, name)
	if err != nil {
		return nil, tools.BadArgsf("no such document: %s", name)
	}
	return blob, nil
}

func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Split(content, "\n"))
}

var _ tools.Provider = (*Provider)(nil)
