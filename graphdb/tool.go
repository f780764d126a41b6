package graphdb

import (
	"context"
	"fmt"

	"github.com/couloir/workbench/tool"
)

// ToolResult is the status envelope the graph tool returns to the agent.
type ToolResult struct {
	Status  string           `json:"status"`
	Records []map[string]any `json:"records,omitempty"`
	Summary *Summary         `json:"summary,omitempty"`
	Message string           `json:"message,omitempty"`
}

// NewNeo4jTool exposes the graph client as an agent tool. Input is a map with
// "statement" plus optional "operation", "parameters", and "database".
// Execution failures come back as an error-status result so the planner can
// recover.
func NewNeo4jTool(client *Client) tool.Tool {
	t := tool.New("neo4j",
		"Run a Cypher statement against the knowledge graph. Input: {\"operation\": \"create|read|update|delete\", \"statement\": ..., \"parameters\": {...}}.",
		func(ctx context.Context, input any) (any, error) {
			q, err := queryInput(input)
			if err != nil {
				return nil, err
			}
			result, err := client.Execute(ctx, q)
			if err != nil {
				return ToolResult{Status: "error", Message: err.Error()}, nil
			}
			return ToolResult{Status: "success", Records: result.Records, Summary: &result.Summary}, nil
		})
	return tool.MustSchema(t, tool.Neo4jInputSchema)
}

func queryInput(input any) (Query, error) {
	var q Query
	switch v := input.(type) {
	case string:
		q.Statement = v
		return q, nil
	case map[string]any:
		statement, ok := tool.StringParam(v, "statement")
		if !ok {
			return q, fmt.Errorf("neo4j: missing \"statement\" parameter")
		}
		q.Statement = statement
		if op, ok := tool.StringParam(v, "operation"); ok {
			q.Operation = op
		}
		if params, ok := tool.MapParam(v, "parameters"); ok {
			q.Parameters = params
		}
		if db, ok := tool.StringParam(v, "database"); ok {
			q.Database = db
		}
		return q, nil
	default:
		return q, fmt.Errorf("neo4j: unsupported input type %T", input)
	}
}
