package agent

import (
	"context"
	"fmt"

	"github.com/couloir/workbench/llm"
)

// planStep runs one planning cycle: render history, invoke the planner,
// parse and validate the decision, and update state. A planner invocation
// failure is fatal for the run and propagates; everything else is absorbed.
func (a *Agent) planStep(ctx context.Context, st *State) error {
	system := composeSystemPrompt(a.registry.Describe(), a.systemPrompt)
	human := renderPlannerPrompt(renderHistory(st.History))

	raw, err := a.planner.Generate(ctx, llm.Request{
		Model:  a.model,
		System: system,
		Prompt: human,
	})
	if err != nil {
		return fmt.Errorf("planner invocation failed: %w", err)
	}

	decision := ParsePlan(raw)
	thought := decision.Thought
	if thought == "" {
		thought = raw
	}

	st.Iterations++

	action := decision.Action
	if action == "" {
		action = ActionFinish
	}
	if action != ActionFinish && !a.registry.Has(action) {
		if isEmptyValue(decision.FinalResponse) {
			decision.FinalResponse = fmt.Sprintf(
				"Unsupported action '%s'. Provide the best possible summary instead.", decision.Action)
		}
		action = ActionFinish
	}

	st.History = append(st.History, NewAssistantTurn(fmt.Sprintf("Thought: %s\nAction: %s", thought, action)))
	st.Thought = thought
	st.PendingAction = action
	st.PendingInput = decision.Input

	a.emitter.Emit(EventPlanDecided, map[string]any{
		"iteration": st.Iterations,
		"action":    action,
		"thought":   thought,
	})

	if action == ActionFinish || st.Iterations >= a.maxIterations {
		st.FinalAnswer = decision.resolveFinalAnswer(thought)
	}

	return nil
}
