package agent

import (
	"fmt"
	"strings"
)

const toolSentinel = "Available tools: shell, python, tavily, document, neo4j."

// DefaultSystemPrompt is the planner directive. The tool sentinel is replaced
// with the live tool list at prompt-assembly time.
const DefaultSystemPrompt = `You are the Workbench orchestrator.
- Plan multi-step solutions and choose the best tool for each step.
- ` + toolSentinel + ` Use shell/python for code or CLI tasks, tavily for web research, document for structured drafts.
- Think step-by-step. When you decide to finish, return a concise, helpful summary of the work performed.
- Always respond using JSON with keys: thought, action, input, final_response (only set when action is "finish").`

// emptyHistoryPlaceholder renders when a run starts with no prior turns.
const emptyHistoryPlaceholder = "(no prior assistant actions)"

const plannerPromptTemplate = "Conversation so far:\n%s\n\n" +
	"When deciding on the next action, respond with strict JSON:\n" +
	"```json\n" +
	"{\n" +
	"  \"thought\": \"<reasoning>\",\n" +
	"  \"action\": \"<tool or finish>\",\n" +
	"  \"input\": <arguments>,\n" +
	"  \"final_response\": \"<only when action is finish>\"\n" +
	"}\n" +
	"```\n" +
	"If you choose a tool, ensure `input` matches its expected parameters."

// composeSystemPrompt splices the tool list into the base directive and
// prepends the caller's custom directive when configured.
func composeSystemPrompt(toolList, custom string) string {
	base := strings.Replace(DefaultSystemPrompt, toolSentinel, "Available tools:\n"+toolList, 1)
	if custom != "" {
		return strings.TrimSpace(custom) + "\n\n" + base
	}
	return base
}

// renderPlannerPrompt embeds the rendered history into the planning request.
func renderPlannerPrompt(history string) string {
	return fmt.Sprintf(plannerPromptTemplate, history)
}

// renderHistory produces the numbered transcript replayed into each planning
// prompt.
func renderHistory(turns []Turn) string {
	if len(turns) == 0 {
		return emptyHistoryPlaceholder
	}
	lines := make([]string, len(turns))
	for i, turn := range turns {
		lines[i] = fmt.Sprintf("%d. [%s] %s", i+1, turn.Role, turn.Text())
	}
	return strings.Join(lines, "\n")
}
