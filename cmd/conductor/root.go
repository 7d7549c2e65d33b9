package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "conductor",
	Short: "Multi-agent task coordinator",
	Long: `Conductor coordinates LLM-backed agents on sequential workflows.

Agents are registered by name, handed tasks, and executed one at a time.
Each agent works in an isolated workspace directory, and task history is
journaled so past runs stay inspectable.

Core capabilities:
- Registers named agents backed by the Anthropic API
- Creates and executes tasks, tracking their lifecycle
- Runs multi-step workflows as a sequential fold
- Files issues and pull requests through a GitHub tracker`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
