// Package state provides SQLite-backed persistence for task history.
// The coordinator journals every task transition here so that past runs
// stay inspectable via the status command.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mkling/conductor/pkg/models"
)

// History wraps an SQLite database holding task records.
type History struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// ProjectDBPath returns the path to the project-local history database.
func ProjectDBPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".conductor", "history.db")
}

// Open opens the history database at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	return &History{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (h *History) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn.Close()
}

// Path returns the path to the database file.
func (h *History) Path() string {
	return h.path
}

// Migrate applies pending schema migrations.
func (h *History) Migrate() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	row := h.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		stmt    string
	}{
		{1, `CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			agent_name TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			result TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := h.conn.Exec(m.stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := h.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
	}

	return nil
}

// RecordTask upserts a task snapshot. Called once per transition, so
// the table always reflects each task's latest state.
func (h *History) RecordTask(task models.Task) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := h.conn.Exec(`
		INSERT INTO tasks (id, agent_name, description, status, result, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			result = excluded.result,
			error = excluded.error,
			updated_at = excluded.updated_at
	`, task.ID, task.AgentName, task.Description, string(task.Status),
		task.Result, task.Error, task.CreatedAt.UTC().Format(time.RFC3339Nano), now)
	if err != nil {
		return fmt.Errorf("record task %s: %w", task.ID, err)
	}
	return nil
}

// Tasks returns all recorded tasks ordered by identifier.
func (h *History) Tasks() ([]models.Task, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.conn.Query(`
		SELECT id, agent_name, description, status, result, error, created_at
		FROM tasks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var status, createdAt string
		if err := rows.Scan(&task.ID, &task.AgentName, &task.Description,
			&status, &task.Result, &task.Error, &createdAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		task.Status = models.TaskStatus(status)
		if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			task.CreatedAt = ts
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// CountByStatus returns the number of recorded tasks per status.
func (h *History) CountByStatus() (map[models.TaskStatus]int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.conn.Query("SELECT status, COUNT(*) FROM tasks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.TaskStatus]int, 4)
	for _, status := range models.AllTaskStatuses() {
		counts[status] = 0
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[models.TaskStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Clear removes all recorded tasks.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.conn.Exec("DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}
