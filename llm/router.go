package llm

// Purpose hints which model tier a caller needs.
type Purpose string

const (
	PurposeChat         Purpose = "chat"
	PurposeDeepResearch Purpose = "deep_research"
)

// Router resolves a purpose (plus optional per-call override) to a provider
// and model, seeded from the secrets file's model preferences.
type Router struct {
	Provider          string
	DefaultModel      string
	ChatModel         string
	DeepResearchModel string
}

// NewRouter builds a router with sensible defaults for the provider.
func NewRouter(provider string) *Router {
	if provider == "" {
		provider = "openai"
	}
	return &Router{
		Provider:     provider,
		DefaultModel: defaultModelFor(provider),
	}
}

// Resolve returns the model to use for a purpose. An explicit override always
// wins; otherwise the purpose-specific preference, then the default.
func (r *Router) Resolve(purpose Purpose, override string) string {
	if override != "" {
		return override
	}
	switch purpose {
	case PurposeChat:
		if r.ChatModel != "" {
			return r.ChatModel
		}
	case PurposeDeepResearch:
		if r.DeepResearchModel != "" {
			return r.DeepResearchModel
		}
	}
	if r.DefaultModel != "" {
		return r.DefaultModel
	}
	return defaultModelFor(r.Provider)
}
