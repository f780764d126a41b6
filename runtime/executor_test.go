package runtime

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestShellExecSuccess(t *testing.T) {
	exec := NewShellExecutor(t.TempDir(), 0)
	result, err := exec.Exec(context.Background(), "echo hello", 0)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.Command != "echo hello" {
		t.Errorf("command = %q", result.Command)
	}
	if result.Cwd != exec.WorkDir() {
		t.Errorf("cwd = %q, want %q", result.Cwd, exec.WorkDir())
	}
	if result.Timestamp == "" {
		t.Error("timestamp empty")
	}
}

func TestShellExecNonZeroExitIsNotAnError(t *testing.T) {
	exec := NewShellExecutor(t.TempDir(), 0)
	result, err := exec.Exec(context.Background(), "exit 3", 0)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", result.ExitCode)
	}
}

func TestShellExecCapturesStderr(t *testing.T) {
	exec := NewShellExecutor(t.TempDir(), 0)
	result, err := exec.Exec(context.Background(), "echo oops >&2", 0)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if strings.TrimSpace(result.Stderr) != "oops" {
		t.Errorf("stderr = %q", result.Stderr)
	}
}

func TestShellExecTimeout(t *testing.T) {
	exec := NewShellExecutor(t.TempDir(), 0)
	result, err := exec.Exec(context.Background(), "sleep 5", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if !result.TimedOut {
		t.Error("TimedOut = false")
	}
	if result.ExitCode != -1 {
		t.Errorf("exit code = %d, want -1", result.ExitCode)
	}
}

func TestShellExecRejectsEmptyCommand(t *testing.T) {
	exec := NewShellExecutor(t.TempDir(), 0)
	if _, err := exec.Exec(context.Background(), "   ", 0); err == nil {
		t.Error("Exec() with empty command succeeded")
	}
}

func TestShellExecRunsInWorkDir(t *testing.T) {
	dir := t.TempDir()
	exec := NewShellExecutor(dir, 0)
	result, err := exec.Exec(context.Background(), "pwd", 0)
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if strings.TrimSpace(result.Stdout) != dir {
		t.Errorf("pwd = %q, want %q", result.Stdout, dir)
	}
}

func TestIsSensitiveEnvVar(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"OPENAI_API_KEY", true},
		{"db_password", true},
		{"GITHUB_TOKEN", true},
		{"AWS_SECRET", true},
		{"SERVICE_CREDENTIAL", true},
		{"PATH", false},
		{"EDITOR", false},
		{"TOKENIZER", false},
	}
	for _, tt := range tests {
		if got := isSensitiveEnvVar(tt.name); got != tt.want {
			t.Errorf("isSensitiveEnvVar(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilterEnvironmentDropsSensitive(t *testing.T) {
	t.Setenv("WB_TEST_API_KEY", "sk-secret")
	t.Setenv("WB_TEST_PLAIN", "visible")
	for _, env := range filterEnvironment() {
		if strings.HasPrefix(env, "WB_TEST_API_KEY=") {
			t.Error("sensitive variable leaked through filter")
		}
	}
	found := false
	for _, env := range filterEnvironment() {
		if env == "WB_TEST_PLAIN=visible" {
			found = true
		}
	}
	if !found {
		t.Error("plain variable filtered out")
	}
}
