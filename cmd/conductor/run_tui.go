package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mkling/conductor/internal/agent"
	"github.com/mkling/conductor/internal/coordinator"
)

// Status icons for workflow steps.
const (
	stepIconPending = "[○]"
	stepIconRunning = "[●]"
	stepIconDone    = "[✓]"
	stepIconFailed  = "[✗]"
)

type stepState int

const (
	stepPending stepState = iota
	stepRunning
	stepDone
	stepFailed
)

// eventMsg wraps a coordinator event for the TUI update loop.
type eventMsg coordinator.Event

// workflowDoneMsg carries the final outcome of the workflow.
type workflowDoneMsg struct {
	results []string
	err     error
}

// runModel renders workflow progress: one line per step with a status
// icon, plus a spinner while a step is executing.
type runModel struct {
	steps   []coordinator.WorkflowStep
	states  []stepState
	current int
	spinner spinner.Model
	done    bool
	err     error
	results []string

	titleStyle   lipgloss.Style
	runningStyle lipgloss.Style
	doneStyle    lipgloss.Style
	failedStyle  lipgloss.Style
	pendingStyle lipgloss.Style
	errStyle     lipgloss.Style
}

func newRunModel(steps []coordinator.WorkflowStep) runModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))

	return runModel{
		steps:   steps,
		states:  make([]stepState, len(steps)),
		current: -1,
		spinner: s,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		runningStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")), // Dark green

		failedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		pendingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

func (m runModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil

	case eventMsg:
		switch msg.Type {
		case coordinator.EventTaskStarted:
			m.current++
			if m.current < len(m.states) {
				m.states[m.current] = stepRunning
			}
		case coordinator.EventTaskCompleted:
			if m.current >= 0 && m.current < len(m.states) {
				m.states[m.current] = stepDone
			}
		case coordinator.EventTaskFailed:
			if m.current >= 0 && m.current < len(m.states) {
				m.states[m.current] = stepFailed
			}
		}
		return m, nil

	case workflowDoneMsg:
		m.done = true
		m.err = msg.err
		m.results = msg.results
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m runModel) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Workflow"))
	b.WriteString("\n\n")

	for i, step := range m.steps {
		line := fmt.Sprintf("%d. %s: %s", i+1, step.AgentName, step.Description)
		switch m.states[i] {
		case stepRunning:
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
			b.WriteString(m.runningStyle.Render(line))
		case stepDone:
			b.WriteString(m.doneStyle.Render(stepIconDone + " " + line))
		case stepFailed:
			b.WriteString(m.failedStyle.Render(stepIconFailed + " " + line))
		default:
			b.WriteString(m.pendingStyle.Render(stepIconPending + " " + line))
		}
		b.WriteString("\n")
	}

	if m.done && m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func runWorkflowTUI(cmd *cobra.Command, coord *coordinator.Coordinator, steps []coordinator.WorkflowStep, client *agent.Client) error {
	p := tea.NewProgram(newRunModel(steps))

	go func() {
		for ev := range coord.Events() {
			p.Send(eventMsg(ev))
			if ev.Type == coordinator.EventWorkflowDone {
				return
			}
		}
	}()

	go func() {
		results, err := coord.ExecuteWorkflow(cmd.Context(), steps)
		p.Send(workflowDoneMsg{results: results, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run interactive view: %w", err)
	}

	m, ok := final.(runModel)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}

	for i, result := range m.results {
		fmt.Printf("\n== Step %d: %s ==\n%s\n", i+1, steps[i].AgentName, result)
	}

	input, output := client.Tracker().Total()
	fmt.Printf("\ntokens: %d in / %d out across %d calls (~$%.4f)\n",
		input, output, client.Tracker().Calls(), client.Tracker().Cost())
	return nil
}
