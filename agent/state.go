package agent

import (
	"encoding/json"
	"fmt"
)

// Role tags a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// Turn is one entry in the run's conversation history. Content may arrive in
// multiple parts; rendering flattens them with single spaces.
type Turn struct {
	Role  Role     `json:"role"`
	Name  string   `json:"name,omitempty"` // tool name on observation turns
	Parts []string `json:"parts"`
}

// NewUserTurn wraps user input.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Parts: []string{content}}
}

// NewAssistantTurn wraps the planner's reasoning record.
func NewAssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Parts: []string{content}}
}

// NewToolTurn wraps an observation produced by the named tool.
func NewToolTurn(name, content string) Turn {
	return Turn{Role: RoleTool, Name: name, Parts: []string{content}}
}

// Text returns the turn content with multi-part content joined by spaces.
func (t Turn) Text() string {
	switch len(t.Parts) {
	case 0:
		return ""
	case 1:
		return t.Parts[0]
	}
	out := t.Parts[0]
	for _, part := range t.Parts[1:] {
		out += " " + part
	}
	return out
}

// State is the mutable conversation state of one run. It is created fresh per
// run, owned by the loop, and never shared across concurrent runs.
type State struct {
	History         []Turn `json:"history"`
	Iterations      int    `json:"iterations"`
	PendingAction   string `json:"pending_action,omitempty"`
	PendingInput    any    `json:"pending_input,omitempty"`
	Thought         string `json:"thought,omitempty"`
	LastObservation string `json:"last_observation,omitempty"`
	FinalAnswer     string `json:"final_answer,omitempty"`
}

// stringify coerces a value to text: strings pass through, structured values
// render as compact JSON, anything unmarshalable falls back to fmt.
func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// isEmptyValue reports whether a decoded JSON value counts as absent for the
// final-answer precedence chain: nil, empty string, empty collection, false,
// and zero all fall through to the next candidate.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case map[string]any:
		return len(val) == 0
	case []any:
		return len(val) == 0
	}
	return false
}
