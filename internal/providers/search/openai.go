// ABOUTME: OpenAI-backed ImageClient using the official SDK.
// ABOUTME: Construction fails fast on an empty API key.

package search

import (
	"context"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/hearthd/hearth/internal/tools"
)

// OpenAIImages generates images through the OpenAI Images API.
type OpenAIImages struct {
	api *openai.Client
}

// NewOpenAIImages creates the image client, or an error when the key is empty.
func NewOpenAIImages(apiKey string) (*OpenAIImages, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, tools.MissingKey("openai")
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIImages{api: &client}, nil
}

// Generate renders the prompt and returns the hosted image URL.
func (c *OpenAIImages) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModelDallE3,
		Size:   openai.ImageGenerateParamsSize1024x1024,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", tools.BadResponsef("image response had no URL")
	}
	return resp.Data[0].URL, nil
}

var _ ImageClient = (*OpenAIImages)(nil)
