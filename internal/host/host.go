// ABOUTME: Host assembly: wires config, store, scheduler, providers, and dispatch.
// ABOUTME: The host owns every collaborator lifecycle from New to Close.

package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hearthd/hearth/internal/config"
	"github.com/hearthd/hearth/internal/prefs"
	"github.com/hearthd/hearth/internal/providers/agentedit"
	"github.com/hearthd/hearth/internal/providers/automation"
	"github.com/hearthd/hearth/internal/providers/remind"
	"github.com/hearthd/hearth/internal/providers/search"
	"github.com/hearthd/hearth/internal/providers/sessions"
	"github.com/hearthd/hearth/internal/providers/settings"
	"github.com/hearthd/hearth/internal/providers/telegram"
	"github.com/hearthd/hearth/internal/providers/workspace"
	"github.com/hearthd/hearth/internal/sched"
	"github.com/hearthd/hearth/internal/store"
	"github.com/hearthd/hearth/internal/tools"
)

// settingsDefs registers the settings surfaced by the settings tools.
var settingsDefs = []prefs.Definition{
	{Key: "tone", Kind: prefs.KindString, Default: "friendly", Description: "Tone the agent replies in"},
	{Key: "verbose", Kind: prefs.KindBool, Default: false, Description: "Include extra detail in replies"},
	{Key: "search_results", Kind: prefs.KindInt, Default: int64(5), Description: "Maximum web search results"},
	{Key: "quiet_hours", Kind: prefs.KindString, Default: "", Description: "Hours to hold notifications, e.g. 22-07"},
}

// Host assembles the full tool surface behind a dispatcher.
type Host struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      store.Store
	scheduler  *sched.Service
	sessions   *sessions.Provider
	catalog    *tools.Catalog
	gate       *tools.Gate
	dispatcher *tools.Dispatcher
}

// New builds the host from configuration. Providers whose credentials are
// absent are still registered; their tools report the missing credential
// when invoked.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Host, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	prefStore, err := prefs.NewStore(cfg.Prefs.Path, settingsDefs, logger)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("opening settings: %w", err)
	}

	var bot *tgbotapi.BotAPI
	if cfg.Telegram.Token != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Warn("telegram disabled", "error", err)
			bot = nil
		}
	}

	notify := func(message string) {
		if bot != nil && cfg.Telegram.ChatID != 0 {
			if _, err := bot.Send(tgbotapi.NewMessage(cfg.Telegram.ChatID, message)); err != nil {
				logger.Error("notify failed", "error", err)
			}
			return
		}
		logger.Info("notification", "message", message)
	}

	scheduler := sched.NewService(st, notify, logger)
	if err := scheduler.Start(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("starting scheduler: %w", err)
	}

	var images search.ImageClient
	if cfg.OpenAI.APIKey != "" {
		if oai, err := search.NewOpenAIImages(cfg.OpenAI.APIKey); err == nil {
			images = oai
		}
	}

	var botSender telegram.Sender
	if bot != nil {
		botSender = bot
	}

	gate := tools.NewGate(logger)
	meta := tools.NewMetaProvider(gate, logger)
	sessionProvider := sessions.New(cfg.Sessions.MaxSessions)

	catalog, err := tools.NewCatalog(logger,
		meta,
		agentedit.New(st, cfg.Agent.ID),
		remind.New(st, scheduler, cfg.Agent.ID),
		search.New(cfg.Search.Endpoint, images),
		settings.New(prefStore),
		telegram.New(botSender, cfg.Telegram.ChatID),
		workspace.New(cfg.Workspace.Root),
		automation.New(cfg.Automation.AllowShell, automation.NewChromeFetcher()),
		sessionProvider,
	)
	if err != nil {
		scheduler.Stop()
		st.Close()
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	meta.BindCatalog(catalog)

	h := &Host{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		scheduler:  scheduler,
		sessions:   sessionProvider,
		catalog:    catalog,
		gate:       gate,
		dispatcher: tools.NewDispatcher(catalog, gate, logger),
	}
	logger.Info("host ready",
		"tools", catalog.Len(),
		"baseline", catalog.BaselineCount(),
		"agent", cfg.Agent.ID)
	return h, nil
}

// Advertised returns the descriptors currently visible to the model.
func (h *Host) Advertised() []tools.Descriptor {
	return h.dispatcher.Advertised()
}

// Invoke dispatches one tool call.
func (h *Host) Invoke(ctx context.Context, name string, args json.RawMessage) tools.Result {
	return h.dispatcher.Invoke(ctx, name, args)
}

// Catalog exposes the full catalog for inspection commands.
func (h *Host) Catalog() *tools.Catalog {
	return h.catalog
}

// Close stops the scheduler, kills live sessions, and closes the store.
func (h *Host) Close() error {
	h.sessions.Close()
	h.scheduler.Stop()
	return h.store.Close()
}
