package main

import (
	"flag"
	"fmt"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/journal"
	"github.com/couloir/workbench/serve"
)

func cmdJournalList(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("journal list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum entries to show")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	store, err := journal.Open(cli.cfg.Journal.Path)
	if err != nil {
		return emit(envelope.Fail("Failed to open journal.", "journal", err.Error()), *jsonOutput)
	}
	defer store.Close()

	entries, err := store.Recent(cli.ctx, *limit)
	if err != nil {
		return emit(envelope.Fail("Failed to read journal.", "journal", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(map[string]any{"entries": entries}, fmt.Sprintf("%d journal entries.", len(entries)), "journal")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		for _, entry := range entries {
			fmt.Printf("%s  %-10s %s\n", entry.CreatedAt.Format("2006-01-02 15:04"), entry.Kind, entry.Summary)
		}
	}
	return code
}

func cmdServe(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cli.cfg.Serve.Addr, "listen address")
	_ = fs.Parse(args)

	store, err := journal.Open(cli.cfg.Journal.Path)
	if err != nil {
		fmt.Fprintf(fs.Output(), "warning: journal unavailable: %v\n", err)
	}
	defer store.Close()

	factory := func(req serve.RunRequest) (agent.Runner, error) {
		opts := workbench.DefaultOptions(cli.cfg, cli.secrets)
		if req.Engine != "" {
			opts.Engine = req.Engine
		}
		if req.Model != "" {
			opts.Model = req.Model
		}
		if req.SystemPrompt != "" {
			opts.SystemPrompt = req.SystemPrompt
		}
		if req.MaxIterations > 0 {
			opts.MaxIterations = req.MaxIterations
		}
		return workbench.BuildAgent(opts)
	}

	server := serve.NewServer(factory, store, cli.cfg.Serve.JWTSecret)
	if err := server.ListenAndServe(cli.ctx, *addr); err != nil {
		fmt.Fprintf(fs.Output(), "workbench serve: %v\n", err)
		return 1
	}
	return 0
}
