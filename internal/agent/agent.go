package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// DefaultSystemPrompt is used when an agent is created without one.
const DefaultSystemPrompt = "You are a helpful agent working on assigned tasks."

// Config describes one agent.
type Config struct {
	// Name identifies the agent. Required.
	Name string
	// SystemPrompt steers the agent. Defaults to DefaultSystemPrompt.
	SystemPrompt string
	// MaxTokens caps the response size. Defaults to 4096.
	MaxTokens int64
	// Temperature is the sampling temperature. Defaults to 0.7.
	Temperature float64
	// WorkspaceDir is the agent's working directory, if any.
	WorkspaceDir string
}

// Agent executes task descriptions against a Claude model. It satisfies
// the coordinator's Executor interface.
type Agent struct {
	name         string
	client       *Client
	systemPrompt string
	maxTokens    int64
	temperature  float64
	workspaceDir string
}

// New creates an agent backed by the given client.
func New(client *Client, cfg Config) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("agent name is required")
	}

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	return &Agent{
		name:         cfg.Name,
		client:       client,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
		temperature:  temperature,
		workspaceDir: cfg.WorkspaceDir,
	}, nil
}

// Name returns the agent's name.
func (a *Agent) Name() string {
	return a.name
}

// WorkspaceDir returns the agent's working directory, or "".
func (a *Agent) WorkspaceDir() string {
	return a.workspaceDir
}

// Execute sends the task description to the model and returns the
// concatenated text of the response. One call per task; no tool loop.
func (a *Agent) Execute(ctx context.Context, description string) (string, error) {
	resp, err := a.client.sdk().Messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.client.Model(),
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(a.temperature),
		System: []anthropic.TextBlockParam{
			{Text: a.systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(description)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("API call failed: %w", err)
	}

	a.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}

	return result.String(), nil
}
