// Package workspace manages per-agent working directories.
//
// Every agent gets an isolated subdirectory under a shared base
// directory, keyed by the lowercased agent name. All file operations
// take paths relative to the agent's subdirectory and reject paths that
// would escape it.
package workspace

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a referenced file does not exist.
var ErrNotFound = errors.New("file not found")

// ErrPathEscape is returned when a relative path would resolve outside
// the agent's workspace directory.
var ErrPathEscape = errors.New("path escapes agent workspace")

// Manager owns the base workspace directory and hands out per-agent
// subdirectories.
type Manager struct {
	baseDir string
}

// NewManager creates a manager rooted at baseDir, creating the
// directory if needed.
func NewManager(baseDir string) (*Manager, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create base dir: %w", err)
	}
	return &Manager{baseDir: abs}, nil
}

// BaseDir returns the absolute base directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// AgentDir returns the workspace directory for an agent, creating it if
// needed. Agent names are case-insensitive: "Planning" and "planning"
// share a directory.
func (m *Manager) AgentDir(agentName string) (string, error) {
	if agentName == "" {
		return "", fmt.Errorf("agent name must not be empty")
	}
	dir := filepath.Join(m.baseDir, strings.ToLower(agentName))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create agent dir: %w", err)
	}
	return dir, nil
}

// Create prepares a workspace for an agent and returns its path. With
// clean set, any existing contents are removed first.
func (m *Manager) Create(agentName string, clean bool) (string, error) {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return "", err
	}
	if clean {
		if err := m.Clear(agentName); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// resolve joins a relative path onto the agent's directory, rejecting
// absolute paths and any path that climbs out of the workspace.
func (m *Manager) resolve(agentName, relPath string) (string, error) {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%q: %w", relPath, ErrPathEscape)
	}
	joined := filepath.Join(dir, relPath)
	rel, err := filepath.Rel(dir, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", relPath, ErrPathEscape)
	}
	return joined, nil
}

// WriteFile writes content to a file in the agent's workspace, creating
// parent directories as needed. Returns the absolute file path.
func (m *Manager) WriteFile(agentName, relPath, content string) (string, error) {
	path, err := m.resolve(agentName, relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create parent dirs: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", relPath, err)
	}
	return path, nil
}

// ReadFile reads a file from the agent's workspace.
func (m *Manager) ReadFile(agentName, relPath string) (string, error) {
	path, err := m.resolve(agentName, relPath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", relPath, ErrNotFound)
		}
		return "", fmt.Errorf("read %s: %w", relPath, err)
	}
	return string(data), nil
}

// ListFiles returns the sorted relative paths of all files in the
// agent's workspace. A non-empty pattern filters by file name using
// filepath.Match semantics, at any depth.
func (m *Manager) ListFiles(agentName, pattern string) ([]string, error) {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if pattern != "" {
			matched, matchErr := filepath.Match(pattern, d.Name())
			if matchErr != nil {
				return fmt.Errorf("pattern %q: %w", pattern, matchErr)
			}
			if !matched {
				return nil
			}
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// DeleteFile removes a file from the agent's workspace.
func (m *Manager) DeleteFile(agentName, relPath string) error {
	path, err := m.resolve(agentName, relPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", relPath, ErrNotFound)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete %s: %w", relPath, err)
	}
	return nil
}

// Clear removes all contents of the agent's workspace, leaving the
// directory itself in place.
func (m *Manager) Clear(agentName string) error {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clear workspace: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("recreate workspace: %w", err)
	}
	return nil
}

// CopyIn copies an outside file into the agent's workspace under
// destRel. Returns the absolute destination path.
func (m *Manager) CopyIn(agentName, sourcePath, destRel string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("source %s: %w", sourcePath, ErrNotFound)
		}
		return "", fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	destPath, err := m.resolve(agentName, destRel)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("create parent dirs: %w", err)
	}

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destRel, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy to %s: %w", destRel, err)
	}
	return destPath, nil
}

// Size returns the total size in bytes of all files in the agent's
// workspace.
func (m *Manager) Size(agentName string) (int64, error) {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return 0, err
	}

	var total int64
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}
