package main

import (
	"flag"
	"fmt"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/journal"
)

func cmdAgentsList(_ *cliContext, args []string) int {
	fs := flag.NewFlagSet("agents list", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	engines := []map[string]string{
		{"name": agent.EngineReact, "description": "Iterative plan/act/observe loop; re-plans after every observation."},
		{"name": agent.EnginePipeline, "description": "Plan-once pipeline; executes a fixed step list and synthesizes the answer."},
	}
	resp := envelope.Ok(map[string]any{"engines": engines}, "Available agent engines.", "agents")
	if !*jsonOutput {
		for _, e := range engines {
			fmt.Printf("%-10s %s\n", e["name"], e["description"])
		}
	}
	return emit(resp, *jsonOutput)
}

func cmdAgentsRun(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("agents run", flag.ExitOnError)
	model := fs.String("model", "", "override the planner model")
	engine := fs.String("engine", cli.cfg.Agent.Engine, "agent engine (react or pipeline)")
	systemPrompt := fs.String("system-prompt", "", "extra system directive prepended to the planner guidance")
	maxIterations := fs.Int("max-iterations", cli.cfg.Agent.MaxIterations, "planning cycle budget")
	noShell := fs.Bool("no-shell", false, "disable the shell tool")
	noPython := fs.Bool("no-python", false, "disable the python tool")
	noTavily := fs.Bool("no-tavily", false, "disable the web search tool")
	noNeo4j := fs.Bool("no-neo4j", false, "disable the graph tool")
	noDocument := fs.Bool("no-document", false, "disable the document generation tool")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing task.", "agents", "usage: workbench agents run <task>"), *jsonOutput)
	}
	task := fs.Arg(0)

	opts := workbench.DefaultOptions(cli.cfg, cli.secrets)
	opts.Model = *model
	opts.Engine = *engine
	opts.SystemPrompt = *systemPrompt
	opts.MaxIterations = *maxIterations
	opts.IncludeShell = !*noShell
	opts.IncludePython = !*noPython
	opts.IncludeTavily = !*noTavily
	opts.IncludeNeo4j = !*noNeo4j
	opts.IncludeDocument = !*noDocument

	runner, err := workbench.BuildAgent(opts)
	if err != nil {
		return emit(envelope.Fail("Failed to initialise agent.", "agents", err.Error()), *jsonOutput)
	}
	defer runner.Close()

	state, err := runner.Run(cli.ctx, []agent.Turn{agent.NewUserTurn(task)})
	if err != nil {
		return emit(envelope.Fail("Agent run failed.", "agents", err.Error()), *jsonOutput)
	}

	recordJournal(cli, journal.Entry{
		Kind:    "agent_run",
		Summary: state.FinalAnswer,
		Detail:  map[string]any{"task": task, "iterations": state.Iterations, "engine": opts.Engine},
	})

	payload := map[string]any{
		"final_response": state.FinalAnswer,
		"iterations":     state.Iterations,
		"history":        state.History,
	}
	resp := envelope.Ok(payload, "Agent run completed.", "agents")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		fmt.Println()
		if state.FinalAnswer == "" {
			fmt.Println("(no response)")
		} else {
			fmt.Println(state.FinalAnswer)
		}
	}
	return code
}

// recordJournal appends an entry, surfacing failures as warnings only.
func recordJournal(cli *cliContext, entry journal.Entry) {
	store, err := journal.Open(cli.cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "warning: journal unavailable: %v\n", err)
		return
	}
	defer store.Close()
	if err := store.Record(cli.ctx, entry); err != nil {
		fmt.Fprintf(flag.CommandLine.Output(), "warning: journal write failed: %v\n", err)
	}
}
