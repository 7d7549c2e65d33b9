package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mkling/conductor/internal/agent"
	"github.com/mkling/conductor/internal/config"
	"github.com/mkling/conductor/internal/coordinator"
	"github.com/mkling/conductor/internal/state"
	"github.com/mkling/conductor/internal/workspace"
)

var (
	runPlain   bool
	runReset   bool
	runBedrock bool
)

var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml>",
	Short: "Execute a workflow file",
	Long: `Run loads a workflow file, registers its agents, and executes the
steps in order. Each step waits for the previous one to complete and a
failing step stops the workflow.

Workflow file format:

  agents:
    - name: planner
      system_prompt: You plan software projects.
    - name: builder
      system_prompt: You implement plans.
  steps:
    - agent: planner
      description: Outline a CLI tool that counts words.
    - agent: builder
      description: Implement the outline from the previous step.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().BoolVar(&runPlain, "plain", false, "print event lines instead of the interactive view")
	runCmd.Flags().BoolVar(&runReset, "reset", false, "clear task history before running")
	runCmd.Flags().BoolVar(&runBedrock, "bedrock", false, "route model calls through AWS Bedrock")
}

// workflowFile is the on-disk workflow description.
type workflowFile struct {
	Agents []agentSpec                `yaml:"agents"`
	Steps  []coordinator.WorkflowStep `yaml:"steps"`
}

type agentSpec struct {
	Name         string  `yaml:"name"`
	SystemPrompt string  `yaml:"system_prompt"`
	MaxTokens    int64   `yaml:"max_tokens"`
	Temperature  float64 `yaml:"temperature"`
}

func loadWorkflowFile(path string) (*workflowFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}

	var wf workflowFile
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("parse workflow file: %w", err)
	}
	if len(wf.Agents) == 0 {
		return nil, fmt.Errorf("workflow defines no agents")
	}
	if len(wf.Steps) == 0 {
		return nil, fmt.Errorf("workflow defines no steps")
	}
	for i, a := range wf.Agents {
		if a.Name == "" {
			return nil, fmt.Errorf("agent %d has no name", i+1)
		}
	}
	for i, s := range wf.Steps {
		if s.AgentName == "" || s.Description == "" {
			return nil, fmt.Errorf("step %d needs both agent and description", i+1)
		}
	}
	return &wf, nil
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	wf, err := loadWorkflowFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := agent.NewClient(agent.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: runBedrock,
	})
	if err != nil {
		return err
	}

	ws, err := workspace.NewManager(cfg.Workspace.BaseDir)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	history, err := state.Open(state.ProjectDBPath(cwd))
	if err != nil {
		return err
	}
	defer history.Close()
	if err := history.Migrate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	logPath := filepath.Join(cwd, ".conductor", "logs", fmt.Sprintf("run-%s.log", runID))
	logger, err := coordinator.NewDebugLogger(logPath)
	if err != nil {
		return err
	}
	defer logger.Close()

	coord := coordinator.New(
		coordinator.WithLogger(logger),
		coordinator.WithJournal(history),
	)
	if runReset {
		coord.Reset()
	}

	for _, spec := range wf.Agents {
		dir, err := ws.AgentDir(spec.Name)
		if err != nil {
			return err
		}
		maxTokens := spec.MaxTokens
		if maxTokens == 0 {
			maxTokens = int64(cfg.Anthropic.MaxTokens)
		}
		temperature := spec.Temperature
		if temperature == 0 {
			temperature = cfg.Anthropic.Temperature
		}
		a, err := agent.New(client, agent.Config{
			Name:         spec.Name,
			SystemPrompt: spec.SystemPrompt,
			MaxTokens:    maxTokens,
			Temperature:  temperature,
			WorkspaceDir: dir,
		})
		if err != nil {
			return err
		}
		coord.RegisterAgent(spec.Name, a)
	}

	if runPlain {
		return runWorkflowPlain(cmd, coord, wf.Steps, client)
	}
	return runWorkflowTUI(cmd, coord, wf.Steps, client)
}

func runWorkflowPlain(cmd *cobra.Command, coord *coordinator.Coordinator, steps []coordinator.WorkflowStep, client *agent.Client) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	dim := color.New(color.Faint)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range coord.Events() {
			switch ev.Type {
			case coordinator.EventTaskStarted:
				dim.Printf("→ %s (%s)\n", ev.TaskID, ev.AgentName)
			case coordinator.EventTaskCompleted:
				green.Printf("✓ %s (%s)\n", ev.TaskID, ev.AgentName)
			case coordinator.EventTaskFailed:
				red.Printf("✗ %s (%s): %v\n", ev.TaskID, ev.AgentName, ev.Err)
			case coordinator.EventWorkflowDone:
				return
			}
		}
	}()

	results, err := coord.ExecuteWorkflow(cmd.Context(), steps)
	if err != nil {
		return err
	}
	<-done

	for i, result := range results {
		fmt.Printf("\n== Step %d: %s ==\n%s\n", i+1, steps[i].AgentName, result)
	}

	input, output := client.Tracker().Total()
	dim.Printf("\ntokens: %d in / %d out across %d calls (~$%.4f)\n",
		input, output, client.Tracker().Calls(), client.Tracker().Cost())
	return nil
}
