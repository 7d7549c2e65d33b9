// Package coordinator tracks tasks and dispatches them to registered agents.
//
// The coordinator owns two pieces of state: a registry mapping agent names
// to executors, and an insertion-ordered table of tasks. Execution is
// synchronous; a workflow is a sequential fold over its steps.
package coordinator

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mkling/conductor/pkg/models"
)

// Executor is the capability an agent exposes to the coordinator:
// turn a task description into a result, or fail.
type Executor interface {
	Execute(ctx context.Context, description string) (string, error)
}

// Journal persists task state transitions. The coordinator treats it as
// best-effort: journal failures are logged, never surfaced to callers.
type Journal interface {
	RecordTask(task models.Task) error
	Clear() error
}

// WorkflowStep is one (agent, description) pair in a workflow.
type WorkflowStep struct {
	AgentName   string `yaml:"agent" json:"agent_name"`
	Description string `yaml:"description" json:"description"`
}

// Summary describes the aggregate state of the task table.
type Summary struct {
	// TotalTasks is the number of tasks created since the last reset.
	TotalTasks int `json:"total_tasks"`
	// RegisteredAgents lists the currently registered agent names, sorted.
	RegisteredAgents []string `json:"registered_agents"`
	// StatusCounts maps each status to the number of tasks holding it.
	// The counts always sum to TotalTasks.
	StatusCounts map[models.TaskStatus]int `json:"status_counts"`
}

// Coordinator coordinates task creation and execution across registered
// agents. All state is guarded by a single mutex; the lock is never held
// across an agent's Execute call, so a slow agent does not block reads.
type Coordinator struct {
	mu      sync.Mutex
	agents  map[string]Executor
	tasks   map[string]*models.Task
	order   []string
	counter int

	events  chan Event
	logger  *DebugLogger
	journal Journal
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger attaches a debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithJournal attaches a task-history journal.
func WithJournal(j Journal) Option {
	return func(c *Coordinator) { c.journal = j }
}

// New creates an empty coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		agents: make(map[string]Executor),
		tasks:  make(map[string]*models.Task),
		events: make(chan Event, eventBuffer),
		logger: NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterAgent adds an agent under the given name. Registration is
// unconditional: registering the same name again replaces the executor.
func (c *Coordinator) RegisterAgent(name string, exec Executor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.agents[name] = exec
	c.logger.Log("registered agent %q", name)
}

// UnregisterAgent removes the named agent. Removing an unknown name is a
// no-op. Tasks already created for the agent stay in the table.
func (c *Coordinator) UnregisterAgent(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.agents[name]; ok {
		delete(c.agents, name)
		c.logger.Log("unregistered agent %q", name)
	}
}

// RegisteredAgents returns the currently registered agent names, sorted.
func (c *Coordinator) RegisteredAgents() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agentNamesLocked()
}

func (c *Coordinator) agentNamesLocked() []string {
	names := make([]string, 0, len(c.agents))
	for name := range c.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateTask creates a pending task for a registered agent and returns
// its identifier. Returns ErrUnknownAgent without touching the counter
// or the task table when the agent is not registered.
func (c *Coordinator) CreateTask(agentName, description string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.agents[agentName]; !ok {
		return "", fmt.Errorf("agent %q: %w", agentName, ErrUnknownAgent)
	}

	c.counter++
	id := fmt.Sprintf("task_%04d", c.counter)

	task := models.NewTask(id, agentName, description)
	c.tasks[id] = task
	c.order = append(c.order, id)
	c.journalTask(*task)

	c.logger.Log("created %s for agent %q", id, agentName)
	c.emit(Event{Type: EventTaskCreated, TaskID: id, AgentName: agentName})
	return id, nil
}

// ExecuteTask runs the identified task against its agent and returns the
// result. The task ends completed or failed; a failed task records the
// formatted error message and is never retried. If the agent was
// unregistered after the task was created, the failure wraps
// ErrAgentUnavailable.
func (c *Coordinator) ExecuteTask(ctx context.Context, taskID string) (string, error) {
	c.mu.Lock()
	task, ok := c.tasks[taskID]
	if !ok {
		c.mu.Unlock()
		return "", fmt.Errorf("task %q: %w", taskID, ErrUnknownTask)
	}

	task.MarkInProgress()
	c.journalTask(*task)
	agentName := task.AgentName
	description := task.Description
	exec, registered := c.agents[agentName]
	c.mu.Unlock()

	c.logger.Log("executing %s (agent=%q)", taskID, agentName)
	c.emit(Event{Type: EventTaskStarted, TaskID: taskID, AgentName: agentName})

	var result string
	var execErr error
	if !registered {
		execErr = fmt.Errorf("agent %q: %w", agentName, ErrAgentUnavailable)
	} else {
		result, execErr = exec.Execute(ctx, description)
	}

	c.mu.Lock()
	if execErr != nil {
		wrapped := &ExecutionError{TaskID: taskID, Cause: execErr}
		task.MarkFailed(wrapped.Error())
		c.journalTask(*task)
		c.mu.Unlock()

		c.logger.Log("failed %s: %v", taskID, wrapped)
		c.emit(Event{Type: EventTaskFailed, TaskID: taskID, AgentName: agentName, Err: wrapped})
		return "", wrapped
	}

	task.MarkCompleted(result)
	c.journalTask(*task)
	c.mu.Unlock()

	c.logger.Log("completed %s", taskID)
	c.emit(Event{Type: EventTaskCompleted, TaskID: taskID, AgentName: agentName})
	return result, nil
}

// TaskStatus returns a snapshot of the identified task. The snapshot is
// a value copy; mutating it does not affect the coordinator's state.
func (c *Coordinator) TaskStatus(taskID string) (models.Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.tasks[taskID]
	if !ok {
		return models.Task{}, fmt.Errorf("task %q: %w", taskID, ErrUnknownTask)
	}
	return *task, nil
}

// ExecuteWorkflow creates and executes each step in order, one at a
// time. Step N begins only after step N-1 completed. On the first
// failure the error is returned and no results are reported; earlier
// tasks stay recorded in the table and remain readable via TaskStatus.
func (c *Coordinator) ExecuteWorkflow(ctx context.Context, steps []WorkflowStep) ([]string, error) {
	results := make([]string, 0, len(steps))

	c.logger.Log("executing workflow with %d steps", len(steps))

	for i, step := range steps {
		c.logger.Log("workflow step %d/%d: %s", i+1, len(steps), step.AgentName)

		taskID, err := c.CreateTask(step.AgentName, step.Description)
		if err != nil {
			return nil, err
		}
		result, err := c.ExecuteTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	c.logger.Log("workflow completed")
	c.emit(Event{Type: EventWorkflowDone})
	return results, nil
}

// PendingTasks returns snapshots of pending tasks in creation order,
// optionally filtered to one agent. An empty agentName means no filter.
func (c *Coordinator) PendingTasks(agentName string) []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	var pending []models.Task
	for _, id := range c.order {
		task := c.tasks[id]
		if task.Status != models.TaskStatusPending {
			continue
		}
		if agentName != "" && task.AgentName != agentName {
			continue
		}
		pending = append(pending, *task)
	}
	return pending
}

// AgentTasks returns snapshots of all tasks assigned to the named agent,
// any status, in creation order.
func (c *Coordinator) AgentTasks(agentName string) []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	var tasks []models.Task
	for _, id := range c.order {
		task := c.tasks[id]
		if task.AgentName == agentName {
			tasks = append(tasks, *task)
		}
	}
	return tasks
}

// Summary returns the aggregate state of the task table.
func (c *Coordinator) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	counts := make(map[models.TaskStatus]int, 4)
	for _, status := range models.AllTaskStatuses() {
		counts[status] = 0
	}
	for _, task := range c.tasks {
		counts[task.Status]++
	}

	return Summary{
		TotalTasks:       len(c.tasks),
		RegisteredAgents: c.agentNamesLocked(),
		StatusCounts:     counts,
	}
}

// Reset clears the task table and the identifier counter. The agent
// registry is untouched. An attached journal is cleared as well.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tasks = make(map[string]*models.Task)
	c.order = nil
	c.counter = 0

	if c.journal != nil {
		if err := c.journal.Clear(); err != nil {
			c.logger.Log("journal clear: %v", err)
		}
	}
	c.logger.Log("coordinator reset")
}

// journalTask records a task snapshot in the journal, if one is
// attached. Must be called with c.mu held.
func (c *Coordinator) journalTask(task models.Task) {
	if c.journal == nil {
		return
	}
	if err := c.journal.RecordTask(task); err != nil {
		c.logger.Log("journal %s: %v", task.ID, err)
	}
}
