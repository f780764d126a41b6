package agent

import (
	"encoding/json"
	"strings"
)

// Decision is the structured outcome of one planning call. Input and the two
// answer fields stay untyped because models emit strings and structures
// interchangeably; the precedence chain coerces at the end.
type Decision struct {
	Thought       string
	Action        string
	Input         any
	FinalResponse any
	Message       any
}

// ParsePlan converts raw planner output into a Decision. It never fails:
// output that does not decode to a JSON object becomes a finish decision
// carrying the trimmed text as the final response. Models cannot be trusted
// to always comply with the requested format, so this fallback is the
// loop's forward-progress guarantee.
func ParsePlan(text string) Decision {
	candidate := extractCandidate(text)

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
		if obj, ok := parsed.(map[string]any); ok {
			return decisionFromObject(obj)
		}
	}

	return Decision{Action: ActionFinish, FinalResponse: candidate}
}

// extractCandidate trims the text and, when fenced, pulls the first non-empty
// fenced segment, stripping a leading "json" language tag.
func extractCandidate(text string) string {
	candidate := strings.TrimSpace(text)
	if !strings.Contains(candidate, "```") {
		return candidate
	}

	for _, block := range strings.Split(candidate, "```") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if len(block) >= 4 && strings.EqualFold(block[:4], "json") {
			block = strings.TrimSpace(block[4:])
		}
		return block
	}
	return candidate
}

func decisionFromObject(obj map[string]any) Decision {
	d := Decision{
		Input:         obj["input"],
		FinalResponse: obj["final_response"],
		Message:       obj["message"],
	}
	if v, ok := obj["thought"]; ok {
		d.Thought = stringify(v)
	}
	if v, ok := obj["action"]; ok {
		d.Action = stringify(v)
	}
	return d
}

// resolveFinalAnswer picks the terminal answer text: final_response, then
// message, then the raw input, then the reasoning, in that order.
func (d Decision) resolveFinalAnswer(thought string) string {
	if !isEmptyValue(d.FinalResponse) {
		return stringify(d.FinalResponse)
	}
	if !isEmptyValue(d.Message) {
		return stringify(d.Message)
	}
	if !isEmptyValue(d.Input) {
		return stringify(d.Input)
	}
	return thought
}
