package coordinator

import "time"

// EventType represents the type of coordinator event.
type EventType string

const (
	// EventTaskCreated indicates a task was added to the task table.
	EventTaskCreated EventType = "task_created"
	// EventTaskStarted indicates a task has begun executing.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed during execution.
	EventTaskFailed EventType = "task_failed"
	// EventWorkflowDone indicates a workflow finished all of its steps.
	EventWorkflowDone EventType = "workflow_done"
)

// Event is emitted by the coordinator as tasks move through their
// lifecycle. Consumers (such as the run TUI) read them from Events().
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the identifier of the related task, if applicable.
	TaskID string
	// AgentName is the agent the related task is assigned to.
	AgentName string
	// Err carries failure details for task_failed events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// eventBuffer is the capacity of the event channel. Events beyond the
// buffer are dropped rather than blocking task execution.
const eventBuffer = 64

// Events returns the coordinator's event stream.
func (c *Coordinator) Events() <-chan Event {
	return c.events
}

// emit sends an event without blocking. If no consumer is keeping up,
// the event is dropped.
func (c *Coordinator) emit(e Event) {
	e.Timestamp = time.Now()
	select {
	case c.events <- e:
	default:
	}
}
