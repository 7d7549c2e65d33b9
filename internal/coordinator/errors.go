package coordinator

import "errors"

// Sentinel errors returned by coordinator operations.
var (
	// ErrUnknownAgent is returned when a task references an agent name
	// that is not currently registered.
	ErrUnknownAgent = errors.New("agent is not registered")

	// ErrUnknownTask is returned when a task identifier is not present
	// in the task table.
	ErrUnknownTask = errors.New("task not found")

	// ErrAgentUnavailable is returned when a task's agent was
	// unregistered after the task was created.
	ErrAgentUnavailable = errors.New("agent is no longer registered")
)

// ExecutionError wraps a failure raised by an agent during task execution.
// The task is left in the failed state with the same formatted message;
// the underlying cause is preserved for errors.Is/errors.As.
type ExecutionError struct {
	// TaskID is the identifier of the task that failed.
	TaskID string
	// Cause is the error raised by the agent.
	Cause error
}

// Error returns the formatted failure message recorded on the task.
func (e *ExecutionError) Error() string {
	return "Task execution failed: " + e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
