package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/couloir/workbench/llm"
	"github.com/couloir/workbench/tool"
)

const pipelinePlanTemplate = "Conversation so far:\n%s\n\n" +
	"Plan the complete sequence of tool calls needed to satisfy the request.\n" +
	"Respond with strict JSON:\n" +
	"```json\n" +
	"{\n" +
	"  \"steps\": [{\"action\": \"<tool>\", \"input\": <arguments>}]\n" +
	"}\n" +
	"```\n" +
	"Return an empty steps array when no tool is needed."

const pipelineSynthesisTemplate = "Conversation so far:\n%s\n\n" +
	"Every planned step has been executed. Write the final answer for the user,\n" +
	"grounded in the observations above. Respond with plain text."

// pipelineStep is one planned tool call.
type pipelineStep struct {
	Action string `json:"action"`
	Input  any    `json:"input"`
}

// Pipeline is the plan-once engine: a single planning call produces the full
// step list, every step executes in order, and a synthesis call writes the
// answer. It trades the react engine's adaptivity for a fixed, auditable call
// count of exactly two planner invocations.
type Pipeline struct {
	id           string
	planner      llm.Client
	model        string
	registry     *tool.Registry
	systemPrompt string
	maxSteps     int
	emitter      *Emitter
}

func newPipeline(o options) *Pipeline {
	id := uuid.New().String()
	return &Pipeline{
		id:           id,
		planner:      o.planner,
		model:        o.model,
		registry:     o.registry,
		systemPrompt: o.systemPrompt,
		maxSteps:     o.maxIterations,
		emitter:      NewEmitter(id, o.eventBuffer),
	}
}

// ID returns the agent identifier.
func (p *Pipeline) ID() string { return p.id }

// Events implements Runner.
func (p *Pipeline) Events() <-chan Event { return p.emitter.Events() }

// Close implements Runner.
func (p *Pipeline) Close() { p.emitter.Close() }

// Run implements Runner.
func (p *Pipeline) Run(ctx context.Context, initial []Turn) (State, error) {
	st := State{History: append([]Turn(nil), initial...)}

	p.emitter.Emit(EventRunStarted, map[string]any{
		"turns": len(st.History),
	})

	steps, raw, err := p.plan(ctx, &st)
	if err != nil {
		p.emitter.Emit(EventRunFailed, map[string]any{"error": err.Error()})
		return st, err
	}

	// A plan that does not decode as steps is treated as the answer itself,
	// mirroring the react parser's finish fallback.
	if steps == nil {
		st.FinalAnswer = strings.TrimSpace(raw)
		p.emitter.Emit(EventRunFinished, map[string]any{
			"final_answer": st.FinalAnswer,
			"iterations":   st.Iterations,
		})
		return st, nil
	}

	if len(steps) > p.maxSteps {
		steps = steps[:p.maxSteps]
	}
	for _, step := range steps {
		p.execute(ctx, &st, step)
	}

	answer, err := p.synthesize(ctx, &st)
	if err != nil {
		p.emitter.Emit(EventRunFailed, map[string]any{"error": err.Error()})
		return st, err
	}
	st.FinalAnswer = answer

	p.emitter.Emit(EventRunFinished, map[string]any{
		"final_answer": st.FinalAnswer,
		"iterations":   st.Iterations,
	})
	return st, nil
}

// plan issues the single planning call. A response that carries no decodable
// steps object returns (nil, raw, nil) so the caller can use the text directly.
func (p *Pipeline) plan(ctx context.Context, st *State) ([]pipelineStep, string, error) {
	system := composeSystemPrompt(p.registry.Describe(), p.systemPrompt)
	human := fmt.Sprintf(pipelinePlanTemplate, renderHistory(st.History))

	raw, err := p.planner.Generate(ctx, llm.Request{
		Model:  p.model,
		System: system,
		Prompt: human,
	})
	if err != nil {
		return nil, "", fmt.Errorf("planner invocation failed: %w", err)
	}
	st.Iterations++

	var parsed struct {
		Steps []pipelineStep `json:"steps"`
	}
	candidate := extractCandidate(raw)
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, candidate, nil
	}

	st.History = append(st.History, NewAssistantTurn(fmt.Sprintf("Planned %d step(s).", len(parsed.Steps))))
	p.emitter.Emit(EventPlanDecided, map[string]any{
		"iteration": st.Iterations,
		"steps":     len(parsed.Steps),
	})
	if parsed.Steps == nil {
		parsed.Steps = []pipelineStep{}
	}
	return parsed.Steps, candidate, nil
}

// execute runs one planned step. Unknown actions and tool failures become
// observations; the synthesis call sees them alongside the successes.
func (p *Pipeline) execute(ctx context.Context, st *State, step pipelineStep) {
	capability, ok := p.registry.Get(step.Action)
	if !ok {
		observation := fmt.Sprintf("No tool named '%s' is available. Summarise progress and stop.", step.Action)
		st.History = append(st.History, NewToolTurn(step.Action, observation))
		st.LastObservation = observation
		return
	}

	p.emitter.Emit(EventToolStarted, map[string]any{"action": step.Action})

	var observation string
	result, err := capability.Invoke(ctx, normalizeInput(step.Input))
	if err != nil {
		observation = fmt.Sprintf(toolFailureFormat, step.Action, err)
	} else {
		observation = renderObservation(result)
	}

	p.emitter.Emit(EventToolFinished, map[string]any{
		"action":      step.Action,
		"observation": observation,
	})

	st.History = append(st.History, NewToolTurn(step.Action, observation))
	st.LastObservation = observation
}

func (p *Pipeline) synthesize(ctx context.Context, st *State) (string, error) {
	system := composeSystemPrompt(p.registry.Describe(), p.systemPrompt)
	human := fmt.Sprintf(pipelineSynthesisTemplate, renderHistory(st.History))

	answer, err := p.planner.Generate(ctx, llm.Request{
		Model:  p.model,
		System: system,
		Prompt: human,
	})
	if err != nil {
		return "", fmt.Errorf("planner invocation failed: %w", err)
	}
	st.Iterations++
	return strings.TrimSpace(answer), nil
}
