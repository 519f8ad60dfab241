package service

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateEnv clears the ambient settings discovery so tests only see what
// they set themselves.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CRITIC_CONF", "")
	t.Setenv("HOME", t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_DEBUG", "true")
	t.Setenv("CRITIC_LOG_LEVEL", "INFO")

	overrides := NewSettingsLoader().EnvOverrides()

	if overrides["debug"] != "true" {
		t.Errorf("Expected debug override, got %v", overrides["debug"])
	}
	if overrides["log_level"] != "INFO" {
		t.Errorf("Expected log_level override, got %v", overrides["log_level"])
	}
	if _, ok := overrides["pull_requests"]; ok {
		t.Error("Unset variables should not produce overrides")
	}
}

func TestResolve_EnvironmentApplies(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_DEBUG", "true")

	cfg, err := NewSettingsLoader().Resolve("octocat/hello-world", "", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !cfg.Debug() {
		t.Error("Expected debug from the environment")
	}
}

func TestResolve_ExplicitOverridesBeatEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_LOG_LEVEL", "INFO")

	cfg, err := NewSettingsLoader().Resolve("octocat/hello-world", "",
		map[string]any{"log_level": "WARNING"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.LogLevel() != "WARNING" {
		t.Errorf("Expected WARNING, got %s", cfg.LogLevel())
	}
}

func TestResolve_RepositoryFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_REPOSITORY", "octocat/hello-world")

	cfg, err := NewSettingsLoader().Resolve("", "", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Repository() != "octocat/hello-world" {
		t.Errorf("Expected repository from the environment, got %s", cfg.Repository())
	}
}

func TestResolve_ExplicitRepositoryWins(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_REPOSITORY", "env/repo")

	cfg, err := NewSettingsLoader().Resolve("octocat/hello-world", "", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Repository() != "octocat/hello-world" {
		t.Errorf("Expected the explicit repository, got %s", cfg.Repository())
	}
}

func TestResolve_UsesSettingsFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, t.TempDir(), "critic.conf",
		"[DEFAULT]\nrepository = octocat/hello-world\nlog_level = INFO\n")

	cfg, err := NewSettingsLoader().Resolve("", path, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Repository() != "octocat/hello-world" {
		t.Errorf("Unexpected repository: %s", cfg.Repository())
	}
	if cfg.LogLevel() != "INFO" {
		t.Errorf("Unexpected log level: %s", cfg.LogLevel())
	}
}

func TestFindSettingsFile_EnvVariable(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, t.TempDir(), "custom.conf", "[DEFAULT]\n")
	t.Setenv("CRITIC_CONF", path)

	if got := NewSettingsLoader().FindSettingsFile(); got != path {
		t.Errorf("Expected %s, got %q", path, got)
	}
}

func TestFindSettingsFile_EnvVariableMissingFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CRITIC_CONF", filepath.Join(t.TempDir(), "absent.conf"))

	if got := NewSettingsLoader().FindSettingsFile(); got != "" {
		t.Errorf("Expected discovery to skip a missing CRITIC_CONF target, got %q", got)
	}
}

func TestFindSettingsFile_HomeConfig(t *testing.T) {
	isolateEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".config"), 0755); err != nil {
		t.Fatalf("Failed to create .config: %v", err)
	}
	path := writeFile(t, filepath.Join(home, ".config"), "critic.conf", "[DEFAULT]\n")

	if got := NewSettingsLoader().FindSettingsFile(); got != path {
		t.Errorf("Expected %s, got %q", path, got)
	}
}

func TestFindSettingsFile_NoneFound(t *testing.T) {
	isolateEnv(t)
	if got := NewSettingsLoader().FindSettingsFile(); got != "" {
		t.Errorf("Expected no settings file, got %q", got)
	}
}
