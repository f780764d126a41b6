package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/couloir/workbench/llm"
	"github.com/couloir/workbench/tool"
)

// ActionFinish is the terminal action marker.
const ActionFinish = "finish"

// Supported engines.
const (
	EngineReact    = "react"
	EnginePipeline = "pipeline"
)

// DefaultMaxIterations caps planning cycles when no override is configured.
const DefaultMaxIterations = 8

// Runner is an invocable agent handle returned by Build.
type Runner interface {
	// Run executes the loop from the initial history to a terminal state.
	// Planner invocation failures are the only runtime errors; tool and
	// parse irregularities are absorbed into the conversation.
	Run(ctx context.Context, initial []Turn) (State, error)

	// Events returns the run-event stream.
	Events() <-chan Event

	// Close releases the event stream.
	Close()
}

type options struct {
	planner       llm.Client
	model         string
	registry      *tool.Registry
	systemPrompt  string
	maxIterations int
	engine        string
	eventBuffer   int
}

// Option configures Build.
type Option func(*options)

// WithPlanner sets the planning model client. Required.
func WithPlanner(p llm.Client) Option {
	return func(o *options) { o.planner = p }
}

// WithModel overrides the planner model identifier.
func WithModel(model string) Option {
	return func(o *options) { o.model = model }
}

// WithRegistry sets the immutable tool registry for the run's lifetime.
func WithRegistry(r *tool.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithSystemPrompt prepends a custom directive to the planner guidance.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) { o.systemPrompt = prompt }
}

// WithMaxIterations caps the number of planning cycles.
func WithMaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = n }
}

// WithEngine selects the agent engine: react (default) or pipeline.
func WithEngine(engine string) Option {
	return func(o *options) { o.engine = engine }
}

// WithEventBuffer sizes the event channel.
func WithEventBuffer(n int) Option {
	return func(o *options) { o.eventBuffer = n }
}

// Build assembles an agent Runner. An unknown engine is a configuration
// error surfaced at build time; the run never starts.
func Build(opts ...Option) (Runner, error) {
	o := options{
		engine:        EngineReact,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.planner == nil {
		return nil, fmt.Errorf("agent: a planner is required")
	}
	if o.registry == nil {
		o.registry = tool.NewRegistry()
	}
	if o.maxIterations <= 0 {
		o.maxIterations = DefaultMaxIterations
	}

	switch strings.ToLower(strings.TrimSpace(o.engine)) {
	case EngineReact:
		return newAgent(o), nil
	case EnginePipeline:
		return newPipeline(o), nil
	default:
		return nil, fmt.Errorf("unsupported agent engine %q (available: pipeline, react)", o.engine)
	}
}

// Agent is the react engine: a plan/act/observe state machine.
type Agent struct {
	id            string
	planner       llm.Client
	model         string
	registry      *tool.Registry
	systemPrompt  string
	maxIterations int
	emitter       *Emitter
}

func newAgent(o options) *Agent {
	id := uuid.New().String()
	return &Agent{
		id:            id,
		planner:       o.planner,
		model:         o.model,
		registry:      o.registry,
		systemPrompt:  o.systemPrompt,
		maxIterations: o.maxIterations,
		emitter:       NewEmitter(id, o.eventBuffer),
	}
}

// ID returns the agent identifier.
func (a *Agent) ID() string { return a.id }

// Events implements Runner.
func (a *Agent) Events() <-chan Event { return a.emitter.Events() }

// Close implements Runner.
func (a *Agent) Close() { a.emitter.Close() }

// Run drives the loop: plan, route, act, repeat. Transitions:
// plan to terminal on finish, budget exhaustion, or an unregistered action;
// plan to act otherwise; act back to plan unconditionally unless the act
// step itself forced termination.
func (a *Agent) Run(ctx context.Context, initial []Turn) (State, error) {
	st := State{History: append([]Turn(nil), initial...)}

	a.emitter.Emit(EventRunStarted, map[string]any{
		"turns": len(st.History),
	})

	for {
		if err := a.planStep(ctx, &st); err != nil {
			a.emitter.Emit(EventRunFailed, map[string]any{"error": err.Error()})
			return st, err
		}

		if st.PendingAction == ActionFinish || st.Iterations >= a.maxIterations {
			break
		}
		// The plan step validates the action against the registry, so this
		// re-check only guards a dispatch gap.
		if !a.registry.Has(st.PendingAction) {
			break
		}

		a.actStep(ctx, &st)

		if st.FinalAnswer != "" {
			break
		}
	}

	a.emitter.Emit(EventRunFinished, map[string]any{
		"final_answer": st.FinalAnswer,
		"iterations":   st.Iterations,
	})
	return st, nil
}
