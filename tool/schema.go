package tool

import (
	"context"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validatedTool wraps a Tool with JSON Schema validation of structured
// inputs. Bare-string inputs bypass validation since the input contract
// permits them.
type validatedTool struct {
	Tool
	schema *jsonschema.Schema
}

// WithSchema wraps a tool so map inputs are validated against the given JSON
// Schema document before dispatch.
func WithSchema(t Tool, schemaJSON string) (Tool, error) {
	schema, err := jsonschema.CompileString(t.Name()+".schema.json", schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("compile schema for tool %s: %w", t.Name(), err)
	}
	return &validatedTool{Tool: t, schema: schema}, nil
}

// MustSchema is WithSchema for build-time schemas that are known to compile.
func MustSchema(t Tool, schemaJSON string) Tool {
	wrapped, err := WithSchema(t, schemaJSON)
	if err != nil {
		panic(err)
	}
	return wrapped
}

func (t *validatedTool) Invoke(ctx context.Context, input any) (any, error) {
	if params, ok := input.(map[string]any); ok {
		if err := t.schema.Validate(params); err != nil {
			return nil, fmt.Errorf("invalid input for tool %s: %w", t.Name(), err)
		}
	}
	return t.Tool.Invoke(ctx, input)
}
