package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("Model = %q", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", cfg.Anthropic.MaxTokens)
	}
	if cfg.Anthropic.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Anthropic.Temperature)
	}
	if cfg.Workspace.BaseDir != "./workspace" {
		t.Errorf("BaseDir = %q, want ./workspace", cfg.Workspace.BaseDir)
	}
	if cfg.Anthropic.APIKey != "" {
		t.Errorf("APIKey should default to empty, got %q", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `anthropic:
  api_key: test-key
  model: claude-sonnet-4-20250514
  max_tokens: 2048
  temperature: 0.2
workspace:
  base_dir: /tmp/agents
github:
  token: ghp_test
  repo: acme/widgets
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("APIKey = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("Model = %q", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d", cfg.Anthropic.MaxTokens)
	}
	if cfg.Anthropic.Temperature != 0.2 {
		t.Errorf("Temperature = %f", cfg.Anthropic.Temperature)
	}
	if cfg.Workspace.BaseDir != "/tmp/agents" {
		t.Errorf("BaseDir = %q", cfg.Workspace.BaseDir)
	}
	if cfg.GitHub.Repo != "acme/widgets" {
		t.Errorf("Repo = %q", cfg.GitHub.Repo)
	}
}

func TestLoadFromPath_DefaultsFillGaps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic:\n  api_key: only-key\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Anthropic.APIKey != "only-key" {
		t.Errorf("APIKey = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.MaxTokens != 4096 {
		t.Errorf("MaxTokens should fall back to default, got %d", cfg.Anthropic.MaxTokens)
	}
	if cfg.Anthropic.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("Model should fall back to default, got %q", cfg.Anthropic.Model)
	}
}

func TestLoadFromPath_ExpandsEnvRefs(t *testing.T) {
	t.Setenv("CONDUCTOR_TEST_KEY", "expanded-secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic:\n  api_key: ${CONDUCTOR_TEST_KEY}\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Anthropic.APIKey != "expanded-secret" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
