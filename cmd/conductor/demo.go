package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mkling/conductor/internal/coordinator"
	"github.com/mkling/conductor/internal/tracker"
	"github.com/mkling/conductor/internal/workspace"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a self-contained demo without API credentials",
	Long: `Demo walks through the core pieces using mock agents: per-agent
workspaces, task creation and execution, a short workflow, and the
issue tracker in its unconfigured placeholder mode.`,
	RunE: runDemo,
}

// mockExecutor stands in for an LLM-backed agent during the demo.
type mockExecutor struct {
	name string
}

func (m *mockExecutor) Execute(ctx context.Context, description string) (string, error) {
	return fmt.Sprintf("[%s] done: %s", m.name, description), nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen)
	bold := color.New(color.Bold)

	bold.Println("== Workspace ==")
	baseDir, err := os.MkdirTemp("", "conductor-demo-")
	if err != nil {
		return fmt.Errorf("create demo dir: %w", err)
	}
	defer os.RemoveAll(baseDir)

	ws, err := workspace.NewManager(baseDir)
	if err != nil {
		return err
	}
	for _, name := range []string{"Planner", "Builder"} {
		dir, err := ws.AgentDir(name)
		if err != nil {
			return err
		}
		green.Printf("  ✓ workspace for %s: %s\n", name, dir)
	}
	if _, err := ws.WriteFile("planner", "plan.md", "1. design\n2. build\n"); err != nil {
		return err
	}
	content, err := ws.ReadFile("planner", "plan.md")
	if err != nil {
		return err
	}
	green.Printf("  ✓ wrote and read plan.md (%d bytes)\n", len(content))

	bold.Println("\n== Coordinator ==")
	coord := coordinator.New()
	coord.RegisterAgent("planner", &mockExecutor{name: "planner"})
	coord.RegisterAgent("builder", &mockExecutor{name: "builder"})
	green.Printf("  ✓ registered agents: %s\n", strings.Join(coord.RegisteredAgents(), ", "))

	taskID, err := coord.CreateTask("planner", "Draft the project plan")
	if err != nil {
		return err
	}
	result, err := coord.ExecuteTask(cmd.Context(), taskID)
	if err != nil {
		return err
	}
	green.Printf("  ✓ %s: %s\n", taskID, result)

	results, err := coord.ExecuteWorkflow(cmd.Context(), []coordinator.WorkflowStep{
		{AgentName: "planner", Description: "Outline the feature"},
		{AgentName: "builder", Description: "Implement the outline"},
	})
	if err != nil {
		return err
	}
	for i, r := range results {
		green.Printf("  ✓ step %d: %s\n", i+1, r)
	}

	summary := coord.Summary()
	fmt.Printf("  %d tasks total, agents: %s\n",
		summary.TotalTasks, strings.Join(summary.RegisteredAgents, ", "))

	bold.Println("\n== Tracker (unconfigured) ==")
	track, err := tracker.New("", "")
	if err != nil {
		return err
	}
	issue, err := track.CreateIssue(cmd.Context(), "Demo issue", "Created by the demo.", nil, nil)
	if err != nil {
		return err
	}
	green.Printf("  ✓ issue #%d %q (%s)\n", issue.Number, issue.Title, issue.State)
	pr, err := track.CreatePullRequest(cmd.Context(), "Demo PR", "Placeholder.", "feature", "main")
	if err != nil {
		return err
	}
	green.Printf("  ✓ pull request #%d %q\n", pr.Number, pr.Title)

	bold.Println("\nDemo complete.")
	return nil
}
