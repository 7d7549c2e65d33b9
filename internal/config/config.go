// Package config handles configuration loading for conductor.
// It supports XDG config paths, project-level overrides, and environment
// variables. The loaded struct is built once at process start and passed
// down; no package reads configuration ambiently.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for conductor.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	GitHub    GitHubConfig    `mapstructure:"github"`
}

// AnthropicConfig holds Anthropic API settings for agents.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key. Required unless Bedrock is used.
	APIKey string `mapstructure:"api_key"`
	// Model is the model identifier for agent execution.
	Model string `mapstructure:"model"`
	// MaxTokens caps the output size of a single agent call.
	MaxTokens int `mapstructure:"max_tokens"`
	// Temperature is the sampling temperature for agent calls.
	Temperature float64 `mapstructure:"temperature"`
}

// WorkspaceConfig holds workspace directory settings.
type WorkspaceConfig struct {
	// BaseDir is the root under which per-agent workspaces live.
	BaseDir string `mapstructure:"base_dir"`
}

// GitHubConfig holds issue tracker credentials. Leaving either field
// empty selects the unconfigured tracker variant.
type GitHubConfig struct {
	Token string `mapstructure:"token"`
	Repo  string `mapstructure:"repo"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, AGENT_MODEL, ...)
// 2. Project config (.conductor.yaml in current directory or a parent)
// 3. User config (~/.config/conductor/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("anthropic.model", "AGENT_MODEL")
	v.BindEnv("anthropic.max_tokens", "MAX_TOKENS")
	v.BindEnv("anthropic.temperature", "AGENT_TEMPERATURE")
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.repo", "GITHUB_REPO")
	v.BindEnv("workspace.base_dir", "WORKSPACE_DIR")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in credentials.
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)
	cfg.GitHub.Token = os.ExpandEnv(cfg.GitHub.Token)

	return cfg, nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(userConfigDir, "config.yaml"))

	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.max_tokens", cfg.Anthropic.MaxTokens)
	v.Set("anthropic.temperature", cfg.Anthropic.Temperature)
	v.Set("workspace.base_dir", cfg.Workspace.BaseDir)
	v.Set("github.token", cfg.GitHub.Token)
	v.Set("github.repo", cfg.GitHub.Repo)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the project config file path, or "" if
// none exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Default returns a Config with built-in default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model:       "claude-haiku-4-5-20251001",
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		Workspace: WorkspaceConfig{
			BaseDir: "./workspace",
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("workspace.base_dir", "./workspace")
	v.SetDefault("github.token", "")
	v.SetDefault("github.repo", "")
}

// getUserConfigDir returns the XDG config directory for conductor.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "conductor")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "conductor")
	}
	return filepath.Join(home, ".config", "conductor")
}

// findProjectConfig searches for .conductor.yaml in the current
// directory and its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".conductor.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}
