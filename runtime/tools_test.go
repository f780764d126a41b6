package runtime

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestShellToolStringInput(t *testing.T) {
	shellTool := NewShellTool(NewShellExecutor(t.TempDir(), 0))
	result, err := shellTool.Invoke(context.Background(), "echo via-tool")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	shell, ok := result.(*ShellResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if strings.TrimSpace(shell.Stdout) != "via-tool" {
		t.Errorf("stdout = %q", shell.Stdout)
	}
}

func TestShellToolMapInput(t *testing.T) {
	shellTool := NewShellTool(NewShellExecutor(t.TempDir(), 0))
	result, err := shellTool.Invoke(context.Background(), map[string]any{
		"command": "echo mapped",
		"timeout": float64(30),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(result.(*ShellResult).Stdout, "mapped") {
		t.Errorf("stdout = %q", result.(*ShellResult).Stdout)
	}
}

func TestShellToolRejectsMissingCommand(t *testing.T) {
	shellTool := NewShellTool(NewShellExecutor(t.TempDir(), 0))
	if _, err := shellTool.Invoke(context.Background(), map[string]any{"timeout": float64(5)}); err == nil {
		t.Error("Invoke() without command succeeded")
	}
}

func TestShellToolRejectsUnknownParameters(t *testing.T) {
	shellTool := NewShellTool(NewShellExecutor(t.TempDir(), 0))
	_, err := shellTool.Invoke(context.Background(), map[string]any{
		"command": "echo x",
		"shelll":  "typo",
	})
	if err == nil {
		t.Error("Invoke() with unknown parameter succeeded")
	}
}

func TestCommandInput(t *testing.T) {
	text, timeout, err := commandInput("ls", "command")
	if err != nil || text != "ls" || timeout != 0 {
		t.Errorf("string input: %q %v %v", text, timeout, err)
	}

	text, timeout, err = commandInput(map[string]any{"code": "print(1)", "timeout": float64(7)}, "code")
	if err != nil || text != "print(1)" || timeout != 7*time.Second {
		t.Errorf("map input: %q %v %v", text, timeout, err)
	}

	if _, _, err := commandInput(42, "command"); err == nil {
		t.Error("scalar input accepted")
	}
	if _, _, err := commandInput(map[string]any{}, "command"); err == nil {
		t.Error("missing key accepted")
	}
}
