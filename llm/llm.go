package llm

import "context"

// Request is a single blocking completion request. The loop's contract is
// prompt in, raw text out; anything richer belongs to the backend.
type Request struct {
	Provider    string
	Model       string
	System      string
	Prompt      string
	Temperature *float64
	MaxTokens   *int
}

// Client is the planner-facing completion interface.
type Client interface {
	// Generate produces the raw model text for a request. Failures are
	// returned as typed errors from this package where classification is
	// possible.
	Generate(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to the Client interface.
type Func func(ctx context.Context, req Request) (string, error)

// Generate implements Client.
func (f Func) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
