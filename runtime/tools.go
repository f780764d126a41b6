package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/couloir/workbench/tool"
)

// NewShellTool exposes a shell executor as an agent tool. Input is either a
// raw command string or a map with "command" and an optional "timeout" in
// seconds.
func NewShellTool(exec *ShellExecutor) tool.Tool {
	t := tool.New("shell",
		"Execute a shell command in the workspace. Input: a command string or {\"command\": ..., \"timeout\": seconds}.",
		func(ctx context.Context, input any) (any, error) {
			command, timeout, err := commandInput(input, "command")
			if err != nil {
				return nil, fmt.Errorf("shell: %w", err)
			}
			return exec.Exec(ctx, command, timeout)
		})
	return tool.MustSchema(t, tool.ShellInputSchema)
}

// NewPythonTool exposes a Python executor as an agent tool. Input is either a
// raw code string or a map with "code" and an optional "timeout" in seconds.
func NewPythonTool(exec *PythonExecutor) tool.Tool {
	t := tool.New("python",
		"Run a Python snippet. Input: a code string or {\"code\": ..., \"timeout\": seconds}.",
		func(ctx context.Context, input any) (any, error) {
			code, timeout, err := commandInput(input, "code")
			if err != nil {
				return nil, fmt.Errorf("python: %w", err)
			}
			return exec.Run(ctx, code, timeout)
		})
	return tool.MustSchema(t, tool.PythonInputSchema)
}

// commandInput resolves the text payload and optional timeout from a tool
// input, where key names the map field carrying the payload.
func commandInput(input any, key string) (string, time.Duration, error) {
	switch v := input.(type) {
	case string:
		return v, 0, nil
	case map[string]any:
		text, ok := tool.StringParam(v, key)
		if !ok {
			return "", 0, fmt.Errorf("missing %q parameter", key)
		}
		var timeout time.Duration
		if secs, ok := tool.IntParam(v, "timeout"); ok && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
		return text, timeout, nil
	default:
		return "", 0, fmt.Errorf("unsupported input type %T", input)
	}
}
