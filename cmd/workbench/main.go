// Command workbench is the workspace automation CLI: it inspects the local
// toolchain, runs planning agents and document workflows, and fronts the
// research, graph, and knowledge base clients.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/config"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/logging"
)

const usage = `Workbench - workspace automation toolkit

Usage:
  workbench <command> [arguments]

Commands:
  info                     Print a short summary of the workspace.
  check                    Probe the configured external CLI tools.
  tools                    List registered agent tools (--catalog for schemas).
  agents list              List available agent engines.
  agents run <task>        Run the workspace agent on a free-form task.
  docs list                List document-generation workflows.
  docs run <workflow>      Run a document-generation workflow.
  research <query>         Search the web through Tavily.
  graph query              Execute a Cypher statement against Neo4j.
  scholar work <doi>       Look up an OpenAlex work record by DOI.
  scholar cited-by <id>    List works citing an OpenAlex work ID.
  scholar journal-works <issn>
                           Query Crossref works for a journal.
  knowledge retrieve <q>   Retrieve chunks from the Dify knowledge base.
  journal list             Show recent journal entries.
  serve                    Serve agent runs over HTTP with event streaming.
  version                  Print the workbench version.
`

// cliContext bundles everything a command needs.
type cliContext struct {
	ctx     context.Context
	cfg     config.Config
	secrets *config.Secrets
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "workbench: %v\n", err)
		return 1
	}
	logging.Init(cfg.Logging.Level, cfg.Logging.Format)

	secrets, err := config.LoadSecrets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "workbench: %v\n", err)
		return 1
	}

	cli := &cliContext{ctx: ctx, cfg: cfg, secrets: secrets}

	switch args[0] {
	case "info":
		return cmdInfo(cli)
	case "check":
		return cmdCheck(cli, args[1:])
	case "tools":
		return cmdTools(cli, args[1:])
	case "agents":
		return dispatch(args[1:], map[string]func([]string) int{
			"list": func(rest []string) int { return cmdAgentsList(cli, rest) },
			"run":  func(rest []string) int { return cmdAgentsRun(cli, rest) },
		})
	case "docs":
		return dispatch(args[1:], map[string]func([]string) int{
			"list": func(rest []string) int { return cmdDocsList(cli, rest) },
			"run":  func(rest []string) int { return cmdDocsRun(cli, rest) },
		})
	case "research":
		return cmdResearch(cli, args[1:])
	case "graph":
		return dispatch(args[1:], map[string]func([]string) int{
			"query": func(rest []string) int { return cmdGraphQuery(cli, rest) },
		})
	case "scholar":
		return dispatch(args[1:], map[string]func([]string) int{
			"work":          func(rest []string) int { return cmdScholarWork(cli, rest) },
			"cited-by":      func(rest []string) int { return cmdScholarCitedBy(cli, rest) },
			"journal-works": func(rest []string) int { return cmdScholarJournalWorks(cli, rest) },
		})
	case "knowledge":
		return dispatch(args[1:], map[string]func([]string) int{
			"retrieve": func(rest []string) int { return cmdKnowledgeRetrieve(cli, rest) },
		})
	case "journal":
		return dispatch(args[1:], map[string]func([]string) int{
			"list": func(rest []string) int { return cmdJournalList(cli, rest) },
		})
	case "serve":
		return cmdServe(cli, args[1:])
	case "version":
		fmt.Println(workbench.Version)
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "workbench: unknown command %q\n\n", args[0])
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
}

func dispatch(args []string, commands map[string]func([]string) int) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "workbench: missing subcommand")
		return 2
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "workbench: unknown subcommand %q\n", args[0])
		return 2
	}
	return cmd(args[1:])
}

// emit prints a response: the full envelope with --json, otherwise the
// human-readable message (and errors on failure).
func emit(resp envelope.Response, jsonOutput bool) int {
	if jsonOutput {
		fmt.Println(resp.ToJSON())
	} else {
		fmt.Println(resp.Message)
		for _, e := range resp.Errors {
			fmt.Fprintf(os.Stderr, "  error: %s\n", e)
		}
	}
	if resp.Status != envelope.StatusSuccess {
		return 1
	}
	return 0
}
