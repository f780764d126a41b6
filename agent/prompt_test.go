package agent

import (
	"strings"
	"testing"
)

func TestRenderHistoryEmpty(t *testing.T) {
	if got := renderHistory(nil); got != emptyHistoryPlaceholder {
		t.Errorf("renderHistory(nil) = %q", got)
	}
}

func TestRenderHistoryNumbersTurns(t *testing.T) {
	turns := []Turn{
		NewUserTurn("list the files"),
		NewAssistantTurn("Thought: look\nAction: shell"),
		NewToolTurn("shell", "a.go b.go"),
	}
	got := renderHistory(turns)
	want := "1. [user] list the files\n" +
		"2. [assistant] Thought: look\nAction: shell\n" +
		"3. [tool] a.go b.go"
	if got != want {
		t.Errorf("renderHistory() = %q, want %q", got, want)
	}
}

func TestRenderHistoryJoinsParts(t *testing.T) {
	turn := Turn{Role: RoleUser, Parts: []string{"first", "second", "third"}}
	got := renderHistory([]Turn{turn})
	if got != "1. [user] first second third" {
		t.Errorf("renderHistory() = %q", got)
	}
}

func TestComposeSystemPromptSplicesToolList(t *testing.T) {
	got := composeSystemPrompt("- shell: run commands", "")
	if strings.Contains(got, toolSentinel) {
		t.Error("sentinel left in composed prompt")
	}
	if !strings.Contains(got, "Available tools:\n- shell: run commands") {
		t.Errorf("tool list missing from prompt: %q", got)
	}
}

func TestComposeSystemPromptPrependsCustomDirective(t *testing.T) {
	got := composeSystemPrompt("- shell: run commands", "  Answer in French.  ")
	if !strings.HasPrefix(got, "Answer in French.\n\n") {
		t.Errorf("custom directive not prepended: %q", got)
	}
	if !strings.Contains(got, "Available tools:") {
		t.Error("base directive dropped")
	}
}

func TestRenderPlannerPromptEmbedsHistory(t *testing.T) {
	got := renderPlannerPrompt("1. [user] hi")
	if !strings.Contains(got, "Conversation so far:\n1. [user] hi") {
		t.Errorf("history missing: %q", got)
	}
	if !strings.Contains(got, `"final_response"`) {
		t.Error("format instruction missing")
	}
}
