package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mkling/conductor/internal/state"
	"github.com/mkling/conductor/pkg/models"
)

var statusAll bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task history for this project",
	Long: `Status reads the project's task history database and prints a
summary of recorded tasks. Use --all to list every task individually.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusAll, "all", false, "list every recorded task")
}

func statusIcon(status models.TaskStatus) string {
	switch status {
	case models.TaskStatusCompleted:
		return stepIconDone
	case models.TaskStatusFailed:
		return stepIconFailed
	case models.TaskStatusInProgress:
		return stepIconRunning
	default:
		return stepIconPending
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	dbPath := state.ProjectDBPath(cwd)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No task history in this project. Run a workflow first.")
		return nil
	}

	history, err := state.Open(dbPath)
	if err != nil {
		return err
	}
	defer history.Close()
	if err := history.Migrate(); err != nil {
		return err
	}

	counts, err := history.CountByStatus()
	if err != nil {
		return err
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	fmt.Println(titleStyle.Render("Task history"))
	total := 0
	for _, status := range models.AllTaskStatuses() {
		total += counts[status]
	}
	fmt.Printf("  %s %d\n", labelStyle.Render("total:"), total)
	for _, status := range models.AllTaskStatuses() {
		fmt.Printf("  %s %s %d\n", statusIcon(status), labelStyle.Render(string(status)+":"), counts[status])
	}

	if !statusAll {
		return nil
	}

	tasks, err := history.Tasks()
	if err != nil {
		return err
	}

	fmt.Println()
	for _, task := range tasks {
		fmt.Printf("%s %s %s: %s\n", statusIcon(task.Status), task.ID, task.AgentName, task.Description)
		if task.Error != "" {
			fmt.Printf("      %s\n", task.Error)
		}
	}
	return nil
}
