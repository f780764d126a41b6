package llm

import "testing"

func TestRouterOverrideWins(t *testing.T) {
	r := &Router{Provider: "openai", ChatModel: "gpt-4o-mini", DeepResearchModel: "o3-mini"}
	if got := r.Resolve(PurposeChat, "custom-model"); got != "custom-model" {
		t.Errorf("override should win, got %q", got)
	}
}

func TestRouterPurposeSelection(t *testing.T) {
	r := &Router{
		Provider:          "openai",
		DefaultModel:      "gpt-4o-mini",
		ChatModel:         "gpt-4o",
		DeepResearchModel: "o3-mini",
	}
	if got := r.Resolve(PurposeChat, ""); got != "gpt-4o" {
		t.Errorf("chat purpose resolved to %q", got)
	}
	if got := r.Resolve(PurposeDeepResearch, ""); got != "o3-mini" {
		t.Errorf("deep_research purpose resolved to %q", got)
	}
}

func TestRouterFallsBackToDefault(t *testing.T) {
	r := &Router{Provider: "openai", DefaultModel: "gpt-4o-mini"}
	if got := r.Resolve(PurposeDeepResearch, ""); got != "gpt-4o-mini" {
		t.Errorf("expected default model, got %q", got)
	}
}

func TestRouterProviderFallback(t *testing.T) {
	r := NewRouter("anthropic")
	got := r.Resolve(PurposeChat, "")
	if got == "" {
		t.Fatal("expected a non-empty model")
	}
	if got != defaultModelFor("anthropic") {
		t.Errorf("expected provider default, got %q", got)
	}
}
