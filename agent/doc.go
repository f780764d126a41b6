// Package agent implements the workbench planning loop.
//
// It pairs a large language model with registered tools and drives a
// plan/act/observe cycle until the model finishes, the iteration budget is
// spent, or the model requests an action the registry cannot serve. Planner
// output is parsed totally: any response, compliant or not, maps to a
// decision, so a run always makes forward progress.
//
// # Architecture
//
// The package is organized around these core concepts:
//
//   - Agent: The react engine, re-planning after every observation.
//   - Pipeline: The plan-once engine, executing a fixed step list and
//     synthesizing the answer in a second model call.
//   - State: Per-run conversation history, pending action, and terminal
//     answer. Created fresh for each run and never shared.
//   - Decision: The parsed outcome of a planning call, with a precedence
//     chain for resolving the final answer.
//   - Emitter: Typed event stream for host application integration.
//
// # Quick Start
//
//	registry := tool.NewRegistry(shellTool, searchTool)
//	runner, err := agent.Build(
//	    agent.WithPlanner(client),
//	    agent.WithRegistry(registry),
//	    agent.WithMaxIterations(8),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer runner.Close()
//
//	state, err := runner.Run(ctx, []agent.Turn{agent.NewUserTurn("Summarize the repo")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(state.FinalAnswer)
package agent
