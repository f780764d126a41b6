// Package runtime runs shell commands and Python snippets on the local
// machine and exposes them as agent tools. Processes run in their own process
// group so a timeout can kill the whole tree, and the child environment is
// filtered of credential-shaped variables.
package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	goruntime "runtime"
	"strings"
	"syscall"
	"time"
)

// DefaultTimeout bounds a command when the caller does not supply one.
const DefaultTimeout = 60 * time.Second

// ShellResult is the structured outcome of a shell command.
type ShellResult struct {
	Command   string  `json:"command"`
	ExitCode  int     `json:"exit_code"`
	Stdout    string  `json:"stdout"`
	Stderr    string  `json:"stderr"`
	Cwd       string  `json:"cwd"`
	Duration  float64 `json:"duration"`
	Timestamp string  `json:"timestamp"`
	TimedOut  bool    `json:"timed_out,omitempty"`
}

// sensitiveEnvSuffixes are case-insensitive suffixes for environment variables
// withheld from child processes.
var sensitiveEnvSuffixes = []string{
	"_API_KEY",
	"_SECRET",
	"_TOKEN",
	"_PASSWORD",
	"_CREDENTIAL",
}

// safeEnvVars are always passed through regardless of filtering.
var safeEnvVars = map[string]bool{
	"PATH": true, "HOME": true, "USER": true, "SHELL": true,
	"LANG": true, "TERM": true, "TMPDIR": true,
	"GOPATH": true, "GOROOT": true,
	"PYENV_ROOT": true, "VIRTUAL_ENV": true,
	"XDG_CONFIG_HOME": true, "XDG_DATA_HOME": true, "XDG_CACHE_HOME": true,
}

func isSensitiveEnvVar(name string) bool {
	upper := strings.ToUpper(name)
	for _, suffix := range sensitiveEnvSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return true
		}
	}
	return false
}

func filterEnvironment() []string {
	var filtered []string
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}
		if safeEnvVars[parts[0]] || !isSensitiveEnvVar(parts[0]) {
			filtered = append(filtered, env)
		}
	}
	return filtered
}

// ShellExecutor runs commands through the system shell inside a working
// directory.
type ShellExecutor struct {
	workDir string
	timeout time.Duration
}

// NewShellExecutor creates a shell executor rooted at workDir. An empty
// workDir resolves to the current directory.
func NewShellExecutor(workDir string, timeout time.Duration) *ShellExecutor {
	if workDir == "" {
		workDir, _ = os.Getwd()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ShellExecutor{workDir: workDir, timeout: timeout}
}

// WorkDir returns the executor's working directory.
func (e *ShellExecutor) WorkDir() string { return e.workDir }

// Exec runs a command and always returns a result; non-zero exits and
// timeouts are reported in the result, not as errors. Only a failure to spawn
// the process is an error.
func (e *ShellExecutor) Exec(ctx context.Context, command string, timeout time.Duration) (*ShellResult, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("shell: empty command")
	}
	if timeout <= 0 {
		timeout = e.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	shell, shellArg := "/bin/bash", "-c"
	if goruntime.GOOS == "windows" {
		shell, shellArg = "cmd.exe", "/c"
	}

	cmd := exec.CommandContext(ctx, shell, shellArg, command)
	cmd.Dir = e.workDir
	cmd.Env = filterEnvironment()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	result := &ShellResult{
		Command:   command,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Cwd:       e.workDir,
		Duration:  duration.Seconds(),
		Timestamp: start.UTC().Format(time.RFC3339),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.TimedOut = true
			result.ExitCode = -1
			if cmd.Process != nil {
				_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			}
			return result, nil
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("shell: %w", err)
	}
	return result, nil
}
