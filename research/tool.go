package research

import (
	"context"
	"fmt"

	"github.com/couloir/workbench/tool"
)

// ToolResult is the status envelope the search tool returns to the agent.
type ToolResult struct {
	Status  string          `json:"status"`
	Data    *SearchResponse `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// NewTavilyTool exposes the search client as an agent tool. Input is a raw
// query string or {"query": ..., "options": {...}}. Search failures come back
// as an error-status result so the planner can route around them.
func NewTavilyTool(client *Client) tool.Tool {
	t := tool.New("tavily",
		"Search the internet. Input: a query string or {\"query\": ..., \"options\": {...}}.",
		func(ctx context.Context, input any) (any, error) {
			query, opts, err := searchInput(input)
			if err != nil {
				return nil, err
			}
			resp, err := client.Search(ctx, query, opts)
			if err != nil {
				return ToolResult{Status: "error", Message: err.Error()}, nil
			}
			return ToolResult{Status: "success", Data: resp}, nil
		})
	return tool.MustSchema(t, tool.TavilyInputSchema)
}

func searchInput(input any) (string, SearchOptions, error) {
	var opts SearchOptions
	switch v := input.(type) {
	case string:
		return v, opts, nil
	case map[string]any:
		query, ok := tool.StringParam(v, "query")
		if !ok {
			return "", opts, fmt.Errorf("tavily: missing \"query\" parameter")
		}
		if raw, ok := tool.MapParam(v, "options"); ok {
			if depth, ok := tool.StringParam(raw, "search_depth"); ok {
				opts.SearchDepth = depth
			}
			if max, ok := tool.IntParam(raw, "max_results"); ok {
				opts.MaxResults = max
			}
			if answer, ok := tool.BoolParam(raw, "include_answer"); ok {
				opts.IncludeAnswer = answer
			}
			if topic, ok := tool.StringParam(raw, "topic"); ok {
				opts.Topic = topic
			}
		}
		return query, opts, nil
	default:
		return "", opts, fmt.Errorf("tavily: unsupported input type %T", input)
	}
}
