// ABOUTME: Search provider: DuckDuckGo instant answers and OpenAI image generation.
// ABOUTME: Both upstreams sit behind small interfaces so tests can stub them.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hearthd/hearth/internal/tools"
)

const (
	searchTimeout = 15 * time.Second
	maxTopics     = 5
	userAgent     = "hearth/0.1"
)

var category = tools.Category{
	Name:        "search",
	Description: "Web search and image generation",
}

// ImageClient generates an image for a prompt and returns its URL.
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider exposes the search tools.
type Provider struct {
	endpoint string
	client   *http.Client
	images   ImageClient
}

// New creates the search provider. images may be nil when no OpenAI key
// is configured; search.generate_image then reports the missing key.
func New(endpoint string, images ImageClient) *Provider {
	return &Provider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: searchTimeout},
		images:   images,
	}
}

// Descriptors lists the search tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "search.web",
			Description: "Search the web via the DuckDuckGo instant answer API",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"query": {Type: "string", Description: "Search query"},
			}, "query"),
			Category: category,
		},
		{
			Name:        "search.generate_image",
			Description: "Generate an image from a text prompt",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"prompt": {Type: "string", Description: "Image description"},
			}, "prompt"),
			Category: category,
		},
	}
}

// Invoke executes a search tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	switch name {
	case "search.web":
		return p.web(ctx, args)
	case "search.generate_image":
		return p.generateImage(ctx, args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown search tool %s", name)
	}
}

type webInput struct {
	Query string `json:"query"`
}

// ddgResponse mirrors the instant answer API fields we consume.
type ddgResponse struct {
	Abstract      string `json:"Abstract"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	Answer        string `json:"Answer"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (p *Provider) web(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	var in webInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Query == "" {
		return tools.Result{}, tools.BadArgsf("query is required")
	}

	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		strings.TrimRight(p.endpoint, "/"), url.QueryEscape(in.Query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return tools.Result{}, tools.APIErrf("building search request: %v", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return tools.Result{}, tools.APIErrf("search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return tools.Result{}, tools.APIErrf("search returned HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tools.Result{}, tools.APIErrf("reading search response: %v", err)
	}

	var ddg ddgResponse
	if err := json.Unmarshal(body, &ddg); err != nil {
		return tools.Result{}, tools.BadResponsef("parsing search response: %v", err)
	}

	var lines []string
	if ddg.Abstract != "" {
		lines = append(lines, fmt.Sprintf("%s: %s (%s)", ddg.Heading, ddg.Abstract, ddg.AbstractURL))
	}
	if ddg.Answer != "" {
		lines = append(lines, "Answer: "+ddg.Answer)
	}
	for i, topic := range ddg.RelatedTopics {
		if i >= maxTopics {
			break
		}
		if topic.Text != "" {
			lines = append(lines, "- "+topic.Text)
		}
	}
	if len(lines) == 0 {
		return tools.Textf("no instant results for %q, try a more specific query", in.Query), nil
	}
	return tools.Text(strings.Join(lines, "\n")), nil
}

type imageInput struct {
	Prompt string `json:"prompt"`
}

func (p *Provider) generateImage(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	if p.images == nil {
		return tools.Result{}, tools.MissingKey("openai")
	}
	var in imageInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Prompt == "" {
		return tools.Result{}, tools.BadArgsf("prompt is required")
	}

	imageURL, err := p.images.Generate(ctx, in.Prompt)
	if err != nil {
		return tools.Result{}, tools.APIErrf("image generation failed: %v", err)
	}
	return tools.JSON(map[string]any{"url": imageURL})
}

var _ tools.Provider = (*Provider)(nil)
