package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestAgentDir_CaseInsensitive(t *testing.T) {
	m := newTestManager(t)

	lower, err := m.AgentDir("planning")
	if err != nil {
		t.Fatalf("AgentDir: %v", err)
	}
	mixed, err := m.AgentDir("Planning")
	if err != nil {
		t.Fatalf("AgentDir: %v", err)
	}
	if lower != mixed {
		t.Errorf("agent dirs differ by case: %q vs %q", lower, mixed)
	}

	if info, err := os.Stat(lower); err != nil || !info.IsDir() {
		t.Errorf("agent dir should exist as a directory: %v", err)
	}
}

func TestWriteReadFile(t *testing.T) {
	m := newTestManager(t)

	path, err := m.WriteFile("demo", "notes/hello.txt", "hello workspace")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("demo", "notes", "hello.txt")) {
		t.Errorf("unexpected path %q", path)
	}

	content, err := m.ReadFile("demo", "notes/hello.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "hello workspace" {
		t.Errorf("content = %q, want %q", content, "hello workspace")
	}
}

func TestReadFile_NotFound(t *testing.T) {
	m := newTestManager(t)

	_, err := m.ReadFile("demo", "missing.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPathEscape_Rejected(t *testing.T) {
	m := newTestManager(t)

	tests := []struct {
		name string
		path string
	}{
		{"parent traversal", "../other/secret.txt"},
		{"nested traversal", "sub/../../other.txt"},
		{"bare dotdot", ".."},
		{"absolute path", "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.WriteFile("demo", tt.path, "x"); !errors.Is(err, ErrPathEscape) {
				t.Errorf("WriteFile(%q) error = %v, want ErrPathEscape", tt.path, err)
			}
			if _, err := m.ReadFile("demo", tt.path); !errors.Is(err, ErrPathEscape) {
				t.Errorf("ReadFile(%q) error = %v, want ErrPathEscape", tt.path, err)
			}
		})
	}
}

func TestPathEscape_InternalDotDotAllowed(t *testing.T) {
	m := newTestManager(t)

	// Paths that stay inside the workspace after cleaning are fine.
	if _, err := m.WriteFile("demo", "sub/../ok.txt", "content"); err != nil {
		t.Errorf("in-workspace path rejected: %v", err)
	}
}

func TestListFiles_SortedAndFiltered(t *testing.T) {
	m := newTestManager(t)

	m.WriteFile("demo", "b.txt", "b")
	m.WriteFile("demo", "a.txt", "a")
	m.WriteFile("demo", "sub/c.txt", "c")
	m.WriteFile("demo", "sub/d.md", "d")

	all, err := m.ListFiles("demo", "")
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{"a.txt", "b.txt", filepath.Join("sub", "c.txt"), filepath.Join("sub", "d.md")}
	if len(all) != len(want) {
		t.Fatalf("ListFiles returned %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("ListFiles[%d] = %q, want %q", i, all[i], want[i])
		}
	}

	txt, err := m.ListFiles("demo", "*.txt")
	if err != nil {
		t.Fatalf("ListFiles with pattern: %v", err)
	}
	if len(txt) != 3 {
		t.Errorf("ListFiles(*.txt) returned %d files, want 3: %v", len(txt), txt)
	}
}

func TestDeleteFile(t *testing.T) {
	m := newTestManager(t)
	m.WriteFile("demo", "tmp.txt", "temp")

	if err := m.DeleteFile("demo", "tmp.txt"); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := m.ReadFile("demo", "tmp.txt"); !errors.Is(err, ErrNotFound) {
		t.Error("file should be gone after delete")
	}

	if err := m.DeleteFile("demo", "tmp.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleting a missing file should return ErrNotFound, got %v", err)
	}
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	m.WriteFile("demo", "one.txt", "1")
	m.WriteFile("demo", "sub/two.txt", "2")

	if err := m.Clear("demo"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	files, err := m.ListFiles("demo", "")
	if err != nil {
		t.Fatalf("ListFiles after clear: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("workspace should be empty after clear, got %v", files)
	}
}

func TestCreate_Clean(t *testing.T) {
	m := newTestManager(t)
	m.WriteFile("demo", "stale.txt", "old")

	dir, err := m.Create("demo", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dir == "" {
		t.Fatal("Create returned empty path")
	}

	files, _ := m.ListFiles("demo", "")
	if len(files) != 0 {
		t.Errorf("clean create should empty the workspace, got %v", files)
	}
}

func TestCopyIn(t *testing.T) {
	m := newTestManager(t)

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "input.txt")
	if err := os.WriteFile(src, []byte("imported"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if _, err := m.CopyIn("demo", src, "data/input.txt"); err != nil {
		t.Fatalf("CopyIn: %v", err)
	}

	content, err := m.ReadFile("demo", "data/input.txt")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if content != "imported" {
		t.Errorf("content = %q, want %q", content, "imported")
	}

	if _, err := m.CopyIn("demo", filepath.Join(srcDir, "nope.txt"), "x.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing source should return ErrNotFound, got %v", err)
	}
}

func TestSize(t *testing.T) {
	m := newTestManager(t)

	size, err := m.Size("demo")
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 0 {
		t.Errorf("empty workspace size = %d, want 0", size)
	}

	m.WriteFile("demo", "a.txt", "1234")
	m.WriteFile("demo", "sub/b.txt", "567890")

	size, err = m.Size("demo")
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 10 {
		t.Errorf("Size = %d, want 10", size)
	}
}

func TestWatch_SeesWrites(t *testing.T) {
	m := newTestManager(t)

	watcher, err := m.Watch("demo")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer watcher.Close()

	if _, err := m.WriteFile("demo", "watched.txt", "change"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case event := <-watcher.Events:
		if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
			t.Errorf("unexpected event op: %v", event.Op)
		}
	case err := <-watcher.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for filesystem event")
	}
}
