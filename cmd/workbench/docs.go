package main

import (
	"flag"
	"fmt"
	"path/filepath"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/docwriter"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/journal"
	"github.com/couloir/workbench/llm"
	"github.com/couloir/workbench/research"
)

func cmdDocsList(_ *cliContext, args []string) int {
	fs := flag.NewFlagSet("docs list", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	items := make([]map[string]string, 0, 4)
	for _, w := range docwriter.Workflows() {
		items = append(items, map[string]string{
			"value":       w.Key,
			"tone":        w.Tone,
			"description": w.Description,
		})
	}
	resp := envelope.Ok(map[string]any{"workflows": items}, "Available document workflows.", "docs")
	if !*jsonOutput {
		for _, w := range docwriter.Workflows() {
			fmt.Printf("%-20s %s\n", w.Key, w.Description)
		}
		fmt.Println()
		fmt.Println("Run `workbench docs run <workflow> -topic ...` to generate a document.")
	}
	return emit(resp, *jsonOutput)
}

func cmdDocsRun(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("docs run", flag.ExitOnError)
	topic := fs.String("topic", "", "topic or theme for the document (required)")
	instructions := fs.String("instructions", "", "additional instructions or constraints")
	audience := fs.String("audience", "", "intended audience description")
	language := fs.String("language", "zh", "output language")
	skipResearch := fs.Bool("skip-research", false, "disable web search integration for this run")
	searchQuery := fs.String("search-query", "", "override the research query (defaults to the topic)")
	aiReview := fs.Bool("ai-review", false, "run an additional AI review pass after drafting")
	temperature := fs.Float64("temperature", 0.4, "sampling temperature for the language model")
	purpose := fs.String("purpose", "general", "model purpose hint (general, deep_research, creative)")
	model := fs.String("model", "", "override the drafting model")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing workflow.", "docs", "usage: workbench docs run <workflow> -topic ..."), *jsonOutput)
	}
	if *topic == "" {
		return emit(envelope.Fail("Missing topic.", "docs", "-topic is required"), *jsonOutput)
	}

	writer, err := buildWriter(cli)
	if err != nil {
		return emit(envelope.Fail("Failed to initialise document writer.", "docs", err.Error()), *jsonOutput)
	}

	result, err := writer.Run(cli.ctx, docwriter.Config{
		Workflow:        fs.Arg(0),
		Topic:           *topic,
		Instructions:    *instructions,
		Audience:        *audience,
		Language:        *language,
		IncludeResearch: !*skipResearch,
		SearchQuery:     *searchQuery,
		IncludeAIReview: *aiReview,
		Temperature:     *temperature,
		Purpose:         *purpose,
		ModelOverride:   *model,
	})
	if err != nil {
		return emit(envelope.Fail("Document workflow failed.", "docs", err.Error()), *jsonOutput)
	}

	recordJournal(cli, journal.Entry{
		Kind:    "docs_run",
		Summary: fmt.Sprintf("%s: %s", result.Workflow, result.Topic),
		Detail:  map[string]any{"path": result.Path, "language": result.Language},
	})

	resp := envelope.Ok(result, "Document workflow completed.", "docs")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		fmt.Println()
		fmt.Println("# --- Draft Output ---")
		fmt.Println(result.Draft)
		if result.AIReview != "" {
			fmt.Println()
			fmt.Println("# --- AI Review ---")
			fmt.Println(result.AIReview)
		}
		if result.Path != "" {
			fmt.Println()
			fmt.Printf("Saved to %s\n", result.Path)
		}
	}
	return code
}

// buildWriter assembles the document writer from credentials: the planner is
// required, the search client optional.
func buildWriter(cli *cliContext) (*docwriter.Writer, error) {
	if !cli.secrets.HasOpenAI() {
		return nil, fmt.Errorf("no planner credentials configured")
	}
	router := llm.NewRouter("openai")
	router.DefaultModel = cli.secrets.OpenAI.Model
	router.ChatModel = cli.secrets.OpenAI.ChatModel
	router.DeepResearchModel = cli.secrets.OpenAI.DeepResearchModel

	client, err := llm.NewGollm("openai", llm.WithAPIKey(cli.secrets.OpenAI.APIKey))
	if err != nil {
		return nil, err
	}
	planner := llm.WithRetry(client, llm.DefaultRetryPolicy())

	var searchClient *research.Client
	if cli.secrets.HasTavily() {
		searchClient = workbench.NewResearchClient(cli.cfg, cli.secrets)
	}

	docsDir := cli.cfg.Workspace.DocsDir
	if docsDir != "" && !filepath.IsAbs(docsDir) {
		docsDir = filepath.Join(cli.cfg.Workspace.Root, docsDir)
	}
	return docwriter.NewWriter(planner, router, searchClient, docsDir), nil
}
