package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mkling/conductor/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Config prints the configuration conductor would use, after merging
the user config file, any project .conductor.yaml, and environment
variables. Credentials are masked.`,
	RunE: runConfig,
}

// mask hides all but the last four characters of a credential.
func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	bold.Println("anthropic:")
	fmt.Printf("  api_key:     %s\n", mask(cfg.Anthropic.APIKey))
	fmt.Printf("  model:       %s\n", cfg.Anthropic.Model)
	fmt.Printf("  max_tokens:  %d\n", cfg.Anthropic.MaxTokens)
	fmt.Printf("  temperature: %g\n", cfg.Anthropic.Temperature)

	bold.Println("workspace:")
	fmt.Printf("  base_dir: %s\n", cfg.Workspace.BaseDir)

	bold.Println("github:")
	fmt.Printf("  token: %s\n", mask(cfg.GitHub.Token))
	repo := cfg.GitHub.Repo
	if repo == "" {
		repo = "(not set)"
	}
	fmt.Printf("  repo:  %s\n", repo)

	fmt.Println()
	userPath := config.GetUserConfigPath()
	if _, err := os.Stat(userPath); err == nil {
		dim.Printf("user config:    %s\n", userPath)
	} else {
		dim.Printf("user config:    %s (missing)\n", userPath)
	}
	if projectPath := config.GetProjectConfigPath(); projectPath != "" {
		dim.Printf("project config: %s\n", projectPath)
	}
	return nil
}
