package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// PythonResult is the structured outcome of a Python snippet.
type PythonResult struct {
	Code      string  `json:"code"`
	Stdout    string  `json:"stdout"`
	Stderr    string  `json:"stderr"`
	Duration  float64 `json:"duration"`
	Timestamp string  `json:"timestamp"`
	TimedOut  bool    `json:"timed_out"`
}

// PythonExecutor runs snippets through a Python interpreter. The snippet is
// written to a temporary file so multi-line code and quoting survive intact.
type PythonExecutor struct {
	binary  string
	workDir string
	timeout time.Duration
}

// NewPythonExecutor creates a Python executor. Empty binary defaults to
// python3; empty workDir resolves to the current directory.
func NewPythonExecutor(binary, workDir string, timeout time.Duration) *PythonExecutor {
	if binary == "" {
		binary = "python3"
	}
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PythonExecutor{binary: binary, workDir: workDir, timeout: timeout}
}

// Run executes a snippet and always returns a result; tracebacks land in
// stderr and timeouts set TimedOut. Only a failure to stage or spawn the
// interpreter is an error.
func (e *PythonExecutor) Run(ctx context.Context, code string, timeout time.Duration) (*PythonResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("python: empty code")
	}
	if timeout <= 0 {
		timeout = e.timeout
	}

	tmp, err := os.CreateTemp("", "workbench-*.py")
	if err != nil {
		return nil, fmt.Errorf("python: stage snippet: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)
	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("python: stage snippet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("python: stage snippet: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.binary, filepath.Clean(path))
	cmd.Dir = e.workDir
	cmd.Env = filterEnvironment()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	result := &PythonResult{
		Code:      code,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  duration.Seconds(),
		Timestamp: start.UTC().Format(time.RFC3339),
	}

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.TimedOut = true
			if cmd.Process != nil {
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
			return result, nil
		}
		if _, ok := runErr.(*exec.ExitError); ok {
			return result, nil
		}
		return nil, fmt.Errorf("python: %w", runErr)
	}
	return result, nil
}
