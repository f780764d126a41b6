package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/couloir/workbench/tool"
)

func buildPipeline(t *testing.T, planner *stubPlanner, opts ...Option) Runner {
	t.Helper()
	runner, err := Build(append([]Option{
		WithPlanner(planner),
		WithEngine(EnginePipeline),
	}, opts...)...)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(runner.Close)
	return runner
}

func TestPipelineExecutesPlannedSteps(t *testing.T) {
	planner := &stubPlanner{responses: []string{
		"```json\n{\"steps\": [{\"action\": \"echo\", \"input\": \"a\"}, {\"action\": \"echo\", \"input\": \"b\"}]}\n```",
		"Both echoes succeeded.",
	}}
	runner := buildPipeline(t, planner, WithRegistry(tool.NewRegistry(echoTool())))

	st, err := runner.Run(context.Background(), []Turn{NewUserTurn("echo twice")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st.FinalAnswer != "Both echoes succeeded." {
		t.Errorf("final answer = %q", st.FinalAnswer)
	}
	if planner.calls != 2 {
		t.Errorf("planner calls = %d, want 2", planner.calls)
	}
	if st.LastObservation != "echo: b" {
		t.Errorf("last observation = %q", st.LastObservation)
	}
	// Synthesis prompt sees both observations.
	synthesis := planner.prompts[1].Prompt
	if !strings.Contains(synthesis, "echo: a") || !strings.Contains(synthesis, "echo: b") {
		t.Errorf("synthesis prompt missing observations: %q", synthesis)
	}
}

func TestPipelineEmptyStepsSkipsExecution(t *testing.T) {
	planner := &stubPlanner{responses: []string{
		`{"steps": []}`,
		"No tools were needed.",
	}}
	runner := buildPipeline(t, planner)

	st, err := runner.Run(context.Background(), []Turn{NewUserTurn("just answer")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st.FinalAnswer != "No tools were needed." {
		t.Errorf("final answer = %q", st.FinalAnswer)
	}
	if st.LastObservation != "" {
		t.Errorf("last observation = %q, want empty", st.LastObservation)
	}
}

func TestPipelineNonCompliantPlanBecomesAnswer(t *testing.T) {
	planner := &stubPlanner{responses: []string{
		"The answer is simply 4.",
	}}
	runner := buildPipeline(t, planner)

	st, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st.FinalAnswer != "The answer is simply 4." {
		t.Errorf("final answer = %q", st.FinalAnswer)
	}
	if planner.calls != 1 {
		t.Errorf("planner calls = %d, want 1", planner.calls)
	}
}

func TestPipelineUnknownActionBecomesObservation(t *testing.T) {
	planner := &stubPlanner{responses: []string{
		`{"steps": [{"action": "search", "input": {"q": "go"}}]}`,
		"Could not search; nothing else to report.",
	}}
	runner := buildPipeline(t, planner, WithRegistry(tool.NewRegistry(echoTool())))

	st, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := "No tool named 'search' is available. Summarise progress and stop."
	if st.LastObservation != want {
		t.Errorf("observation = %q, want %q", st.LastObservation, want)
	}
	if st.FinalAnswer != "Could not search; nothing else to report." {
		t.Errorf("final answer = %q", st.FinalAnswer)
	}
}

func TestPipelineTruncatesStepsToBudget(t *testing.T) {
	planner := &stubPlanner{responses: []string{
		`{"steps": [{"action": "echo", "input": "1"}, {"action": "echo", "input": "2"}, {"action": "echo", "input": "3"}]}`,
		"done",
	}}
	runner := buildPipeline(t, planner,
		WithRegistry(tool.NewRegistry(echoTool())),
		WithMaxIterations(2),
	)

	st, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	toolTurns := 0
	for _, turn := range st.History {
		if turn.Role == RoleTool {
			toolTurns++
		}
	}
	if toolTurns != 2 {
		t.Errorf("tool turns = %d, want 2", toolTurns)
	}
}
