// ABOUTME: Automation provider: bounded shell execution and headless page fetch.
// ABOUTME: Shell runs are capped in time and output; browsing sits behind PageFetcher.

package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"os/exec"
	"strings"
	"time"

	"github.com/hearthd/hearth/internal/tools"
)

const (
	shellTimeout   = 20 * time.Second
	maxOutputBytes = 64 * 1024
)

var category = tools.Category{
	Name:        "automation",
	Description: "Run shell commands and fetch pages with a headless browser",
}

// PageFetcher renders a URL and returns its visible text.
type PageFetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// Provider exposes the automation tools.
type Provider struct {
	allowShell bool
	fetcher    PageFetcher
}

// New creates the automation provider. fetcher may be nil when no browser
// is available; automation.browse then reports the missing dependency.
func New(allowShell bool, fetcher PageFetcher) *Provider {
	return &Provider{allowShell: allowShell, fetcher: fetcher}
}

// Descriptors lists the automation tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "automation.shell",
			Description: "Run a shell command; output is truncated and runs are time-capped",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"command": {Type: "string", Description: "Command to run with bash -lc"},
			}, "command"),
			Category: category,
		},
		{
			Name:        "automation.browse",
			Description: "Fetch a page with a headless browser and return its text",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"url": {Type: "string", Description: "Page URL (http or https)"},
			}, "url"),
			Category: category,
		},
	}
}

// Invoke executes an automation tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	switch name {
	case "automation.shell":
		return p.shell(ctx, args)
	case "automation.browse":
		return p.browse(ctx, args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown automation tool %s", name)
	}
}

type shellInput struct {
	Command string `json:"command"`
}

func (p *Provider) shell(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	if !p.allowShell {
		return tools.Result{}, tools.Unavailable("shell (disabled in config)")
	}
	var in shellInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if strings.TrimSpace(in.Command) == "" {
		return tools.Result{}, tools.BadArgsf("command is required")
	}

	runCtx, cancel := context.WithTimeout(ctx, shellTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "bash", "-lc", in.Command)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()

	text := truncate(out.String())
	if runCtx.Err() == context.DeadlineExceeded {
		return tools.Result{
			Content: text + "\n(command timed out)",
			IsError: true,
		}, nil
	}
	if err != nil {
		return tools.Result{
			Content: text + "\n(exit: " + err.Error() + ")",
			IsError: true,
		}, nil
	}
	return tools.Text(text), nil
}

type browseInput struct {
	URL string `json:"url"`
}

func (p *Provider) browse(ctx context.Context, args json.RawMessage) (tools.Result, error) {
	if p.fetcher == nil {
		return tools.Result{}, tools.Unavailable("browser")
	}
	var in browseInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	parsed, err := url.Parse(in.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return tools.Result{}, tools.BadArgsf("url must be http or https")
	}

	text, err := p.fetcher.FetchText(ctx, in.URL)
	if err != nil {
		return tools.Result{}, tools.APIErrf("browsing %s: %v", in.URL, err)
	}
	return tools.Text(truncate(text)), nil
}

func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "\n... (truncated)"
}

var _ tools.Provider = (*Provider)(nil)
