// Package workbench assembles the workspace agent from configuration and
// secrets: it wires the planner client, probes which tools have credentials,
// and hands the resulting registry to the selected engine.
package workbench

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/config"
	"github.com/couloir/workbench/docwriter"
	"github.com/couloir/workbench/graphdb"
	"github.com/couloir/workbench/llm"
	"github.com/couloir/workbench/logging"
	"github.com/couloir/workbench/research"
	"github.com/couloir/workbench/runtime"
	"github.com/couloir/workbench/tool"
)

// Options selects what goes into a workspace agent. The Include flags default
// to true through DefaultOptions; tools whose credentials are missing are
// omitted silently regardless.
type Options struct {
	Config  config.Config
	Secrets *config.Secrets

	Engine        string
	Model         string
	SystemPrompt  string
	MaxIterations int

	IncludeShell    bool
	IncludePython   bool
	IncludeTavily   bool
	IncludeNeo4j    bool
	IncludeDocument bool

	// Planner overrides the secrets-derived model client. Used by tests and
	// embedders that bring their own client.
	Planner llm.Client
}

// DefaultOptions returns Options with every tool enabled and loop settings
// taken from the configuration.
func DefaultOptions(cfg config.Config, secrets *config.Secrets) Options {
	return Options{
		Config:          cfg,
		Secrets:         secrets,
		Engine:          cfg.Agent.Engine,
		MaxIterations:   cfg.Agent.MaxIterations,
		IncludeShell:    true,
		IncludePython:   true,
		IncludeTavily:   true,
		IncludeNeo4j:    true,
		IncludeDocument: true,
	}
}

// BuildAgent assembles a Runner from the options.
func BuildAgent(opts Options) (agent.Runner, error) {
	planner, router, err := buildPlanner(opts)
	if err != nil {
		return nil, err
	}

	registry, err := BuildToolset(opts, planner, router)
	if err != nil {
		return nil, err
	}

	model := opts.Model
	if model == "" && router != nil {
		model = router.Resolve(llm.PurposeChat, "")
	}

	return agent.Build(
		agent.WithPlanner(planner),
		agent.WithModel(model),
		agent.WithRegistry(registry),
		agent.WithSystemPrompt(opts.SystemPrompt),
		agent.WithMaxIterations(opts.MaxIterations),
		agent.WithEngine(opts.Engine),
	)
}

// buildPlanner resolves the model client: an explicit override wins, then the
// secrets file. Retry wrapping applies only to the real client; overrides are
// used verbatim.
func buildPlanner(opts Options) (llm.Client, *llm.Router, error) {
	router := llm.NewRouter("openai")
	if opts.Secrets.HasOpenAI() {
		oa := opts.Secrets.OpenAI
		router.DefaultModel = oa.Model
		router.ChatModel = oa.ChatModel
		router.DeepResearchModel = oa.DeepResearchModel
	}

	if opts.Planner != nil {
		return opts.Planner, router, nil
	}
	if !opts.Secrets.HasOpenAI() {
		return nil, nil, fmt.Errorf("no planner credentials configured: add an [openai] table to %s", config.SecretsPath())
	}

	client, err := llm.NewGollm("openai",
		llm.WithAPIKey(opts.Secrets.OpenAI.APIKey),
		llm.WithModel(router.Resolve(llm.PurposeChat, opts.Model)),
	)
	if err != nil {
		return nil, nil, err
	}
	return llm.WithRetry(client, llm.DefaultRetryPolicy()), router, nil
}

// BuildToolset assembles the tool registry for the enabled, credentialed
// capabilities.
func BuildToolset(opts Options, planner llm.Client, router *llm.Router) (*tool.Registry, error) {
	log := logging.Named("workbench")
	cfg := opts.Config
	var tools []tool.Tool

	if opts.IncludeShell {
		tools = append(tools, runtime.NewShellTool(runtime.NewShellExecutor(cfg.Workspace.Root, 0)))
	}
	if opts.IncludePython {
		tools = append(tools, runtime.NewPythonTool(runtime.NewPythonExecutor(cfg.Agent.PythonBinary, cfg.Workspace.Root, 0)))
	}

	var searchClient *research.Client
	if opts.Secrets.HasTavily() {
		searchClient = NewResearchClient(cfg, opts.Secrets)
		if opts.IncludeTavily {
			tools = append(tools, research.NewTavilyTool(searchClient))
		}
	} else if opts.IncludeTavily {
		log.Debug("tavily tool omitted: no credentials")
	}

	if opts.IncludeNeo4j {
		if opts.Secrets.HasNeo4j() {
			n4j := opts.Secrets.Neo4j
			client, err := graphdb.NewClient(graphdb.Config{
				URI:      n4j.URI,
				Username: n4j.Username,
				Password: n4j.Password,
				Database: n4j.Database,
			})
			if err != nil {
				return nil, err
			}
			tools = append(tools, graphdb.NewNeo4jTool(client))
		} else {
			log.Debug("neo4j tool omitted: no credentials")
		}
	}

	if opts.IncludeDocument && planner != nil {
		docsDir := cfg.Workspace.DocsDir
		if docsDir != "" && !filepath.IsAbs(docsDir) {
			docsDir = filepath.Join(cfg.Workspace.Root, docsDir)
		}
		writer := docwriter.NewWriter(planner, router, searchClient, docsDir)
		tools = append(tools, docwriter.NewDocumentTool(writer))
	}

	return tool.NewRegistry(tools...), nil
}

// NewResearchClient builds the Tavily client with the configured cache.
// Callers must have verified Tavily credentials exist.
func NewResearchClient(cfg config.Config, secrets *config.Secrets) *research.Client {
	cache := research.NewCache(research.CacheConfig{
		Addr:     cfg.Research.CacheAddr,
		Password: cfg.Research.CachePassword,
		DB:       cfg.Research.CacheDB,
		TTL:      time.Duration(cfg.Research.CacheTTLSec) * time.Second,
	})
	return research.NewClient(secrets.Tavily.APIKey,
		research.WithBaseURL(secrets.Tavily.BaseURL),
		research.WithCache(cache),
	)
}
