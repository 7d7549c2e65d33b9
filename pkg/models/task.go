// Package models defines the shared value types used across conductor.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has been created but not started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress indicates the task is being executed.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed during execution.
	TaskStatusFailed TaskStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// AllTaskStatuses returns every status in reporting order.
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusFailed,
	}
}

// Task represents one unit of work assigned to a named agent.
// Tasks move forward only: pending -> in_progress -> completed or failed.
// Result and Error are mutually exclusive; at most one is ever set.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// AgentName is the name of the agent the task is assigned to.
	AgentName string `json:"agent_name"`
	// Description is the free-text description of the work.
	Description string `json:"description"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Result holds the agent's response when the task completed.
	Result string `json:"result,omitempty"`
	// Error holds the failure message when the task failed.
	Error string `json:"error,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
}

// NewTask creates a task in the pending state.
func NewTask(id, agentName, description string) *Task {
	return &Task{
		ID:          id,
		AgentName:   agentName,
		Description: description,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now(),
	}
}

// MarkInProgress transitions the task to in_progress.
// No guard is applied: callers are expected to invoke this once,
// from the pending state.
func (t *Task) MarkInProgress() {
	t.Status = TaskStatusInProgress
}

// MarkCompleted transitions the task to completed and stores the result.
// The transition is an unconditional overwrite; any previously recorded
// error is cleared so that Result and Error stay mutually exclusive.
func (t *Task) MarkCompleted(result string) {
	t.Status = TaskStatusCompleted
	t.Result = result
	t.Error = ""
}

// MarkFailed transitions the task to failed and stores the error message.
// Any previously recorded result is cleared.
func (t *Task) MarkFailed(errMsg string) {
	t.Status = TaskStatusFailed
	t.Error = errMsg
	t.Result = ""
}
