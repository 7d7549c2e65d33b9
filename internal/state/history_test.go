package state

import (
	"path/filepath"
	"testing"

	"github.com/mkling/conductor/pkg/models"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()

	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { h.Close() })

	if err := h.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return h
}

func TestMigrate_Idempotent(t *testing.T) {
	h := openTestHistory(t)
	if err := h.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestRecordTask_UpsertsLatestState(t *testing.T) {
	h := openTestHistory(t)

	task := models.NewTask("task_0001", "planning", "sketch the design")
	if err := h.RecordTask(*task); err != nil {
		t.Fatalf("RecordTask: %v", err)
	}

	task.MarkInProgress()
	if err := h.RecordTask(*task); err != nil {
		t.Fatalf("RecordTask in_progress: %v", err)
	}
	task.MarkCompleted("design sketched")
	if err := h.RecordTask(*task); err != nil {
		t.Fatalf("RecordTask completed: %v", err)
	}

	tasks, err := h.Tasks()
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1 (upsert)", len(tasks))
	}
	got := tasks[0]
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.Result != "design sketched" {
		t.Errorf("Result = %q, want %q", got.Result, "design sketched")
	}
	if got.AgentName != "planning" {
		t.Errorf("AgentName = %q, want planning", got.AgentName)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should round-trip")
	}
}

func TestTasks_OrderedByID(t *testing.T) {
	h := openTestHistory(t)

	for _, id := range []string{"task_0002", "task_0001", "task_0003"} {
		if err := h.RecordTask(*models.NewTask(id, "worker", "job")); err != nil {
			t.Fatalf("RecordTask %s: %v", id, err)
		}
	}

	tasks, err := h.Tasks()
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	want := []string{"task_0001", "task_0002", "task_0003"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d].ID = %q, want %q", i, tasks[i].ID, id)
		}
	}
}

func TestCountByStatus(t *testing.T) {
	h := openTestHistory(t)

	pending := models.NewTask("task_0001", "a", "x")
	failed := models.NewTask("task_0002", "a", "y")
	failed.MarkFailed("broken")
	done := models.NewTask("task_0003", "b", "z")
	done.MarkCompleted("ok")

	for _, task := range []*models.Task{pending, failed, done} {
		if err := h.RecordTask(*task); err != nil {
			t.Fatalf("RecordTask: %v", err)
		}
	}

	counts, err := h.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[models.TaskStatusPending] != 1 ||
		counts[models.TaskStatusFailed] != 1 ||
		counts[models.TaskStatusCompleted] != 1 ||
		counts[models.TaskStatusInProgress] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestClear(t *testing.T) {
	h := openTestHistory(t)

	if err := h.RecordTask(*models.NewTask("task_0001", "a", "x")); err != nil {
		t.Fatalf("RecordTask: %v", err)
	}
	if err := h.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	tasks, err := h.Tasks()
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty history after Clear, got %d tasks", len(tasks))
	}
}
