package llm

import (
	"context"
	"fmt"

	"github.com/teilomillet/gollm"
)

// Gollm is the production Client backed by the gollm library.
type Gollm struct {
	provider string
	llm      gollm.LLM
	model    string
}

// GollmOption configures a Gollm client.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. When empty, gollm falls back to environment
// variables.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) { c.apiKey = key }
}

// WithModel sets the default model identifier.
func WithModel(model string) GollmOption {
	return func(c *gollmConfig) { c.model = model }
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) { c.maxTokens = n }
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) { c.temperature = t }
}

// WithGollmOptions appends extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) { c.extraOpts = append(c.extraOpts, opts...) }
}

// NewGollm creates a gollm-backed client for the given provider.
func NewGollm(provider string, opts ...GollmOption) (*Gollm, error) {
	cfg := &gollmConfig{
		maxTokens:   4096,
		temperature: 0.3,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	model := cfg.model
	if model == "" {
		model = defaultModelFor(provider)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // retry is a middleware concern, see WithRetry
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, &ConfigurationError{ClientError{
			Message: fmt.Sprintf("failed to create %s client", provider),
			Cause:   err,
		}}
	}

	return &Gollm{provider: provider, llm: llm, model: model}, nil
}

// NewGollmFromLLM wraps an existing gollm.LLM instance.
func NewGollmFromLLM(provider string, llm gollm.LLM) *Gollm {
	return &Gollm{provider: provider, llm: llm}
}

// Provider returns the backend provider identifier.
func (g *Gollm) Provider() string { return g.provider }

// Generate implements Client.
func (g *Gollm) Generate(ctx context.Context, req Request) (string, error) {
	if req.Model != "" {
		g.llm.SetOption("model", req.Model)
	}
	if req.Temperature != nil {
		g.llm.SetOption("temperature", *req.Temperature)
	}
	if req.MaxTokens != nil {
		g.llm.SetOption("max_tokens", *req.MaxTokens)
	}

	promptOpts := []gollm.PromptOption{}
	if req.System != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(req.System, gollm.CacheTypeEphemeral))
	}

	prompt := gollm.NewPrompt(req.Prompt, promptOpts...)
	text, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", classifyError(g.provider, err)
	}
	return text, nil
}

func defaultModelFor(provider string) string {
	switch provider {
	case "anthropic":
		return "claude-sonnet-4-5-20250514"
	default:
		return "gpt-4o-mini"
	}
}
