// ABOUTME: Configuration loading and parsing for hearthd.
// ABOUTME: Supports YAML files with environment variable expansion and sane defaults.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete hearthd configuration.
type Config struct {
	Agent      AgentConfig      `yaml:"agent"`
	Database   DatabaseConfig   `yaml:"database"`
	Prefs      PrefsConfig      `yaml:"prefs"`
	Logging    LoggingConfig    `yaml:"logging"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Search     SearchConfig     `yaml:"search"`
	Workspace  WorkspaceConfig  `yaml:"workspace"`
	Automation AutomationConfig `yaml:"automation"`
	Sessions   SessionsConfig   `yaml:"sessions"`
}

// AgentConfig identifies the agent whose documents the tools edit.
type AgentConfig struct {
	ID string `yaml:"id"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// PrefsConfig holds the settings store location.
type PrefsConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelegramConfig holds the Telegram bot credentials.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// OpenAIConfig holds the OpenAI API credentials for image generation.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearchConfig holds the web search endpoint.
type SearchConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// WorkspaceConfig roots the workspace file tools.
type WorkspaceConfig struct {
	Root string `yaml:"root"`
}

// AutomationConfig controls the automation provider.
type AutomationConfig struct {
	AllowShell bool `yaml:"allow_shell"`
}

// SessionsConfig controls the external-process session provider.
type SessionsConfig struct {
	MaxSessions int `yaml:"max_sessions"`
}

var envVarPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := envVarPattern.ReplaceAllStringFunc(string(data), func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Default returns a configuration with usable defaults for every field
// that has one. Credentials default to empty and gate their providers off.
func Default() *Config {
	dataDir := defaultDataDir()
	return &Config{
		Agent:    AgentConfig{ID: "default"},
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "hearth.db")},
		Prefs:    PrefsConfig{Path: filepath.Join(dataDir, "prefs.toml")},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Search:   SearchConfig{Endpoint: "https://api.duckduckgo.com"},
		Workspace: WorkspaceConfig{
			Root: filepath.Join(dataDir, "workspace"),
		},
		Automation: AutomationConfig{AllowShell: true},
		Sessions:   SessionsConfig{MaxSessions: 4},
	}
}

// defaultDataDir resolves XDG_DATA_HOME/hearth, falling back to
// ~/.local/share/hearth.
func defaultDataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "hearth")
}
