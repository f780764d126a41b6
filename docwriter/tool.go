package docwriter

import (
	"context"
	"fmt"

	"github.com/couloir/workbench/tool"
)

// ToolResult is the status envelope the document tool returns to the agent.
type ToolResult struct {
	Status  string  `json:"status"`
	Data    *Result `json:"data,omitempty"`
	Message string  `json:"message,omitempty"`
}

// NewDocumentTool exposes the writer as an agent tool. Workflow failures come
// back as an error-status result so the planner can adjust and retry.
func NewDocumentTool(writer *Writer) tool.Tool {
	t := tool.New("document",
		"Generate a structured document. Input: {\"workflow\": \"report|patent_disclosure|plan|project_proposal\", \"topic\": ..., \"language\": ..., \"skip_research\": bool}.",
		func(ctx context.Context, input any) (any, error) {
			cfg, err := configInput(input)
			if err != nil {
				return nil, err
			}
			result, err := writer.Run(ctx, cfg)
			if err != nil {
				return ToolResult{Status: "error", Message: err.Error()}, nil
			}
			return ToolResult{Status: "success", Data: result}, nil
		})
	return tool.MustSchema(t, tool.DocumentInputSchema)
}

func configInput(input any) (Config, error) {
	params, ok := input.(map[string]any)
	if !ok {
		return Config{}, fmt.Errorf("document: structured input required")
	}
	workflow, ok := tool.StringParam(params, "workflow")
	if !ok {
		return Config{}, fmt.Errorf("document: missing \"workflow\" parameter")
	}
	topic, ok := tool.StringParam(params, "topic")
	if !ok {
		return Config{}, fmt.Errorf("document: missing \"topic\" parameter")
	}

	cfg := Config{
		Workflow:        workflow,
		Topic:           topic,
		IncludeResearch: true,
	}
	if instructions, ok := tool.StringParam(params, "instructions"); ok {
		cfg.Instructions = instructions
	}
	if audience, ok := tool.StringParam(params, "audience"); ok {
		cfg.Audience = audience
	}
	if language, ok := tool.StringParam(params, "language"); ok {
		cfg.Language = language
	}
	if skip, ok := tool.BoolParam(params, "skip_research"); ok {
		cfg.IncludeResearch = !skip
	}
	return cfg, nil
}
