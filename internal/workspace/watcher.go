package workspace

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch returns a filesystem watcher on the agent's workspace
// directory. The caller reads Events and Errors from the watcher and is
// responsible for closing it. Only the top-level directory is watched;
// subdirectories created later are not added automatically.
func (m *Manager) Watch(agentName string) (*fsnotify.Watcher, error) {
	dir, err := m.AgentDir(agentName)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return watcher, nil
}
