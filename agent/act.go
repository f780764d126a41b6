package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// toolFailureFormat masks a capability failure as an observation so the
// planner can recover or route around it on the next turn. Tool failures
// never abort a run.
const toolFailureFormat = "An internal error occurred while running tool '%s'. Include any partial results and continue. Error: %v"

// actStep consumes the pending action: resolve, normalize input, invoke, and
// record the observation.
func (a *Agent) actStep(ctx context.Context, st *State) {
	action := st.PendingAction
	if action == "" {
		return
	}

	capability, ok := a.registry.Get(action)
	if !ok {
		// Recovery path for a dispatch gap the plan step should have caught.
		st.FinalAnswer = fmt.Sprintf("No tool named '%s' is available. Summarise progress and stop.", action)
		st.PendingAction = ""
		st.PendingInput = nil
		return
	}

	input := normalizeInput(st.PendingInput)

	a.emitter.Emit(EventToolStarted, map[string]any{"action": action})

	var observation string
	result, err := capability.Invoke(ctx, input)
	if err != nil {
		observation = fmt.Sprintf(toolFailureFormat, action, err)
	} else {
		observation = renderObservation(result)
	}

	a.emitter.Emit(EventToolFinished, map[string]any{
		"action":      action,
		"observation": observation,
	})

	st.History = append(st.History, NewToolTurn(action, observation))
	st.PendingAction = ""
	st.PendingInput = nil
	st.LastObservation = observation
}

// normalizeInput shapes the planner-supplied input for dispatch: absent
// becomes an empty map, strings pass through verbatim, maps are shallow
// copied, anything else passes through.
func normalizeInput(input any) any {
	switch v := input.(type) {
	case nil:
		return map[string]any{}
	case string:
		return v
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out
	default:
		return input
	}
}

// renderObservation converts a tool result to observation text: strings pass
// through, structured values render as indented JSON, unmarshalable values
// fall back to their default string form.
func renderObservation(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(data)
}
