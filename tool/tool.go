// Package tool defines the uniform capability interface the agent dispatches
// on, the immutable registry built at agent construction, and the descriptor
// catalog surfaced by the CLI.
package tool

import "context"

// Tool is an invocable capability. Input arrives normalized by the act step:
// an empty map, a raw string, or a map of parameters. The result is a string
// or a structured value the act step renders as an observation.
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, input any) (any, error)
}

// funcTool adapts a plain function to the Tool interface.
type funcTool struct {
	name        string
	description string
	fn          func(ctx context.Context, input any) (any, error)
}

// New wraps a function as a Tool.
func New(name, description string, fn func(ctx context.Context, input any) (any, error)) Tool {
	return &funcTool{name: name, description: description, fn: fn}
}

func (t *funcTool) Name() string        { return t.name }
func (t *funcTool) Description() string { return t.description }

func (t *funcTool) Invoke(ctx context.Context, input any) (any, error) {
	return t.fn(ctx, input)
}

// StringParam extracts a string parameter from a map input.
func StringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntParam extracts an integer parameter, accepting the float64 values JSON
// decoding produces.
func IntParam(params map[string]any, key string) (int, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// BoolParam extracts a boolean parameter.
func BoolParam(params map[string]any, key string) (bool, bool) {
	v, ok := params[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// MapParam extracts a nested map parameter.
func MapParam(params map[string]any, key string) (map[string]any, bool) {
	v, ok := params[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
