// ABOUTME: hearthd CLI: serve an interactive REPL, make one-off tool calls,
// ABOUTME: and inspect the catalog and gating state.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hearthd/hearth/internal/config"
	"github.com/hearthd/hearth/internal/host"
)

var (
	version    = "0.1.0"
	configPath string
)

func main() {
	root := &cobra.Command{
		Use:     "hearthd",
		Short:   "hearthd: a gated tool host for LLM agents",
		Long:    "hearthd registers tool providers, gates them by category, and dispatches calls.",
		Version: version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: $XDG_CONFIG_HOME/hearth/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(callCmd())
	root.AddCommand(toolsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath picks the config path from the flag, HEARTH_CONFIG, or
// the XDG default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("HEARTH_CONFIG"); env != "" {
		return env
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configDir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configDir, "hearth", "config.yaml")
}

// loadConfig loads the resolved config path, falling back to defaults when
// no file exists.
func loadConfig(logger *slog.Logger) *config.Config {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config not found, using defaults", "path", path, "error", err)
		return config.Default()
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func buildHost(ctx context.Context) (*host.Host, *slog.Logger, error) {
	bootLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := loadConfig(bootLogger)
	logger := newLogger(cfg)
	h, err := host.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return h, logger, nil
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file and create the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			cfg := config.Default()
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Workspace.Root, 0o755); err != nil {
				return err
			}
			color.New(color.FgGreen).Printf("initialized %s\n", path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run an interactive tool REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, logger, err := buildHost(ctx)
			if err != nil {
				return err
			}
			defer h.Close()

			cyan := color.New(color.FgCyan)
			gray := color.New(color.FgHiBlack)
			red := color.New(color.FgRed)

			cyan.Fprintln(os.Stderr, "hearthd ready. call tools as: <name> {json args}")
			gray.Fprintln(os.Stderr, `try: tools.list {}`)

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
			for {
				fmt.Fprint(os.Stderr, "> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				name, rawArgs := splitCall(line)
				res := h.Invoke(ctx, name, rawArgs)
				if res.IsError {
					red.Println(res.Content)
				} else {
					fmt.Println(res.Content)
				}

				select {
				case <-ctx.Done():
					logger.Info("shutting down")
					return nil
				default:
				}
			}
			return scanner.Err()
		},
	}
}

// splitCall parses "tool.name {json}" into its parts. Missing args become {}.
func splitCall(line string) (string, json.RawMessage) {
	name, rest, found := strings.Cut(line, " ")
	if !found || strings.TrimSpace(rest) == "" {
		return name, json.RawMessage(`{}`)
	}
	return name, json.RawMessage(strings.TrimSpace(rest))
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <tool> [json-args]",
		Short: "Invoke one tool and print the result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, _, err := buildHost(ctx)
			if err != nil {
				return err
			}
			defer h.Close()

			rawArgs := json.RawMessage(`{}`)
			if len(args) == 2 {
				rawArgs = json.RawMessage(args[1])
			}
			res := h.Invoke(ctx, args[0], rawArgs)
			if res.IsError {
				color.New(color.FgRed).Println(res.Content)
				os.Exit(1)
			}
			fmt.Println(res.Content)
			return nil
		},
	}
}

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the tool catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every registered tool grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h, _, err := buildHost(ctx)
			if err != nil {
				return err
			}
			defer h.Close()

			green := color.New(color.FgGreen)
			gray := color.New(color.FgHiBlack)

			catalog := h.Catalog()
			descriptions := catalog.CategoryDescriptions()
			byCategory := catalog.ByCategory()
			categories := make([]string, 0, len(byCategory))
			for category := range byCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				names := byCategory[category]
				green.Printf("%s", category)
				gray.Printf("  %s\n", descriptions[category])
				for _, name := range names {
					d, _ := catalog.Descriptor(name)
					marker := " "
					if d.Baseline {
						marker = "*"
					}
					fmt.Printf("  %s %-28s %s\n", marker, d.Name, d.Description)
				}
			}
			gray.Println("\n* = baseline (always available)")
			return nil
		},
	})
	return cmd
}
