package workbench

import (
	"context"
	"strings"
	"testing"

	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/config"
	"github.com/couloir/workbench/llm"
)

type cannedPlanner struct {
	response string
}

func (c *cannedPlanner) Generate(context.Context, llm.Request) (string, error) {
	return c.response, nil
}

func testOptions(secrets *config.Secrets) Options {
	cfg := config.Default()
	opts := DefaultOptions(cfg, secrets)
	opts.Planner = &cannedPlanner{response: `{"action": "finish", "final_response": "ok"}`}
	return opts
}

func TestBuildAgentWithBareSecrets(t *testing.T) {
	opts := testOptions(&config.Secrets{})
	runner, err := BuildAgent(opts)
	if err != nil {
		t.Fatalf("BuildAgent() error = %v", err)
	}
	defer runner.Close()

	st, err := runner.Run(context.Background(), []agent.Turn{agent.NewUserTurn("finish up")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if st.FinalAnswer != "ok" {
		t.Errorf("final answer = %q", st.FinalAnswer)
	}
}

func TestBuildAgentRequiresCredentialsWithoutOverride(t *testing.T) {
	opts := testOptions(&config.Secrets{})
	opts.Planner = nil
	_, err := BuildAgent(opts)
	if err == nil {
		t.Fatal("BuildAgent() without planner credentials succeeded")
	}
	if !strings.Contains(err.Error(), "no planner credentials") {
		t.Errorf("error = %v", err)
	}
}

func TestBuildAgentRejectsUnknownEngine(t *testing.T) {
	opts := testOptions(&config.Secrets{})
	opts.Engine = "swarm"
	_, err := BuildAgent(opts)
	if err == nil || !strings.Contains(err.Error(), "unsupported agent engine") {
		t.Errorf("error = %v", err)
	}
}

func TestBuildToolsetProbesCredentials(t *testing.T) {
	// No secrets: only the local runtime tools and the document workflow.
	opts := testOptions(&config.Secrets{})
	registry, err := BuildToolset(opts, opts.Planner, llm.NewRouter("openai"))
	if err != nil {
		t.Fatalf("BuildToolset() error = %v", err)
	}
	names := registry.Names()
	want := []string{"document", "python", "shell"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tools = %v, want %v", names, want)
		}
	}

	// Tavily credentials add the search tool.
	opts.Secrets = &config.Secrets{Tavily: &config.TavilySecrets{APIKey: "tvly-x"}}
	registry, err = BuildToolset(opts, opts.Planner, llm.NewRouter("openai"))
	if err != nil {
		t.Fatalf("BuildToolset() error = %v", err)
	}
	if !registry.Has("tavily") {
		t.Errorf("tools = %v, want tavily present", registry.Names())
	}
}

func TestBuildToolsetHonorsIncludeFlags(t *testing.T) {
	opts := testOptions(&config.Secrets{})
	opts.IncludeShell = false
	opts.IncludePython = false
	opts.IncludeDocument = false
	registry, err := BuildToolset(opts, opts.Planner, llm.NewRouter("openai"))
	if err != nil {
		t.Fatalf("BuildToolset() error = %v", err)
	}
	if registry.Count() != 0 {
		t.Errorf("tools = %v, want none", registry.Names())
	}
}
