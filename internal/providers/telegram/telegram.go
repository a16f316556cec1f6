// ABOUTME: Telegram provider: send messages and documents to the configured chat.
// ABOUTME: The bot API sits behind a Sender interface so tests can capture sends.

package telegram

import (
	"context"
	"encoding/json"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hearthd/hearth/internal/tools"
)

var category = tools.Category{
	Name:        "telegram",
	Description: "Send messages and files over Telegram",
}

// Sender is the slice of the bot API the provider needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Provider exposes Telegram tools bound to a single chat.
type Provider struct {
	bot    Sender
	chatID int64
}

// New creates the Telegram provider. bot may be nil when Telegram is not
// configured; the tools then report the missing credential.
func New(bot Sender, chatID int64) *Provider {
	return &Provider{bot: bot, chatID: chatID}
}

// Descriptors lists the Telegram tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "telegram.send_message",
			Description: "Send a text message to the configured Telegram chat",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"text": {Type: "string", Description: "Message text"},
			}, "text"),
			Category: category,
		},
		{
			Name:        "telegram.send_document",
			Description: "Send a local file as a Telegram document",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"path":    {Type: "string", Description: "Path to the file to send"},
				"caption": {Type: "string", Description: "Optional caption"},
			}, "path"),
			Category: category,
		},
	}
}

// Invoke executes a Telegram tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	if p.bot == nil {
		return tools.Result{}, tools.MissingKey("telegram")
	}
	switch name {
	case "telegram.send_message":
		return p.sendMessage(args)
	case "telegram.send_document":
		return p.sendDocument(args)
	default:
		return tools.Result{}, tools.BadArgsf("unknown telegram tool %s", name)
	}
}

type messageInput struct {
	Text string `json:"text"`
}

func (p *Provider) sendMessage(args json.RawMessage) (tools.Result, error) {
	var in messageInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Text == "" {
		return tools.Result{}, tools.BadArgsf("text is required")
	}
	msg := tgbotapi.NewMessage(p.chatID, in.Text)
	sent, err := p.bot.Send(msg)
	if err != nil {
		return tools.Result{}, tools.APIErrf("telegram send failed: %v", err)
	}
	return tools.JSON(map[string]any{"message_id": sent.MessageID})
}

type documentInput struct {
	Path    string `json:"path"`
	Caption string `json:"caption"`
}

func (p *Provider) sendDocument(args json.RawMessage) (tools.Result, error) {
	var in documentInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if in.Path == "" {
		return tools.Result{}, tools.BadArgsf("path is required")
	}
	if _, err := os.Stat(in.Path); err != nil {
		return tools.Result{}, tools.BadArgsf("cannot read %s: %v", in.Path, err)
	}
	doc := tgbotapi.NewDocument(p.chatID, tgbotapi.FilePath(in.Path))
	doc.Caption = in.Caption
	sent, err := p.bot.Send(doc)
	if err != nil {
		return tools.Result{}, tools.APIErrf("telegram send failed: %v", err)
	}
	return tools.JSON(map[string]any{"message_id": sent.MessageID})
}

var _ tools.Provider = (*Provider)(nil)
