// Package llm provides the planner-facing language model client used by the
// workbench agent and document workflows.
//
// # Architecture
//
// The package keeps the boundary deliberately narrow: a Client turns a
// Request (system prompt + prompt) into raw model text. Three layers build on
// that contract:
//
//   - Gollm: the production backend wrapping github.com/teilomillet/gollm
//   - WithRetry: backoff middleware for callers that opt into retries
//   - Router: purpose-based model selection (chat, deep_research)
//
// Errors cross the boundary as a typed hierarchy (ClientError at the base,
// provider-specific variants above it) so callers can ask IsRetryable without
// string matching.
//
// # Quick Start
//
//	client, err := llm.NewGollm("openai", llm.WithAPIKey(key))
//	if err != nil {
//	    return err
//	}
//	text, err := client.Generate(ctx, llm.Request{
//	    Model:  "gpt-4o-mini",
//	    System: "You are a planner.",
//	    Prompt: "What next?",
//	})
package llm
