package main

import (
	"encoding/json"
	"flag"
	"fmt"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/graphdb"
	"github.com/couloir/workbench/knowledge"
	"github.com/couloir/workbench/research"
	"github.com/couloir/workbench/scholar"
)

func cmdResearch(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("research", flag.ExitOnError)
	maxResults := fs.Int("max-results", 5, "maximum number of results")
	depth := fs.String("depth", "", "search depth (basic or advanced)")
	includeAnswer := fs.Bool("answer", true, "request a synthesized answer")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing query.", "research", "usage: workbench research <query>"), *jsonOutput)
	}
	if !cli.secrets.HasTavily() {
		return emit(envelope.Fail("Tavily is not configured.", "research", "add a [tavily] table to the secrets file"), *jsonOutput)
	}

	client := workbench.NewResearchClient(cli.cfg, cli.secrets)
	result, err := client.Search(cli.ctx, fs.Arg(0), research.SearchOptions{
		MaxResults:    *maxResults,
		SearchDepth:   *depth,
		IncludeAnswer: *includeAnswer,
	})
	if err != nil {
		return emit(envelope.Fail("Web search failed.", "research", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(result, fmt.Sprintf("%d results.", len(result.Results)), "research")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		if result.Answer != "" {
			fmt.Println()
			fmt.Println(result.Answer)
		}
		fmt.Println()
		for _, hit := range result.Results {
			fmt.Printf("- %s\n  %s\n", hit.Title, hit.URL)
		}
	}
	return code
}

func cmdGraphQuery(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("graph query", flag.ExitOnError)
	operation := fs.String("operation", "read", "CRUD operation (create, read, update, delete)")
	statement := fs.String("statement", "", "Cypher statement to execute (required)")
	params := fs.String("params", "", "statement parameters as a JSON object")
	database := fs.String("database", "", "database override")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if *statement == "" {
		return emit(envelope.Fail("Missing statement.", "graph", "-statement is required"), *jsonOutput)
	}
	if !cli.secrets.HasNeo4j() {
		return emit(envelope.Fail("Neo4j is not configured.", "graph", "add a [neo4j] table to the secrets file"), *jsonOutput)
	}

	var parameters map[string]any
	if *params != "" {
		if err := json.Unmarshal([]byte(*params), &parameters); err != nil {
			return emit(envelope.Fail("Invalid -params value.", "graph", err.Error()), *jsonOutput)
		}
	}

	n4j := cli.secrets.Neo4j
	client, err := graphdb.NewClient(graphdb.Config{
		URI:      n4j.URI,
		Username: n4j.Username,
		Password: n4j.Password,
		Database: n4j.Database,
	})
	if err != nil {
		return emit(envelope.Fail("Failed to connect to Neo4j.", "graph", err.Error()), *jsonOutput)
	}
	defer client.Close(cli.ctx)

	result, err := client.Execute(cli.ctx, graphdb.Query{
		Operation:  *operation,
		Statement:  *statement,
		Parameters: parameters,
		Database:   *database,
	})
	if err != nil {
		return emit(envelope.Fail("Cypher execution failed.", "graph", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(result, fmt.Sprintf("%d records.", len(result.Records)), "graph")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		data, _ := json.MarshalIndent(result.Records, "", "  ")
		fmt.Println(string(data))
	}
	return code
}

func cmdScholarWork(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("scholar work", flag.ExitOnError)
	mailto := fs.String("mailto", cli.cfg.Scholar.Mailto, "contact email forwarded to OpenAlex")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing DOI.", "openalex", "usage: workbench scholar work <doi>"), *jsonOutput)
	}

	client := scholar.NewOpenAlexClient(*mailto)
	work, err := client.WorkByDOI(cli.ctx, fs.Arg(0))
	if err != nil {
		return emit(envelope.Fail("OpenAlex work lookup failed.", "openalex", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(work, "OpenAlex work lookup completed.", "openalex")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		fmt.Println()
		fmt.Printf("Title: %v\n", work["title"])
		fmt.Printf("ID   : %v\n", work["id"])
	}
	return code
}

func cmdScholarCitedBy(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("scholar cited-by", flag.ExitOnError)
	from := fs.String("from", "", "filter citing works published on/after this date (YYYY-MM-DD)")
	to := fs.String("to", "", "filter citing works published on/before this date (YYYY-MM-DD)")
	perPage := fs.Int("per-page", 200, "citing works per page (OpenAlex max 200)")
	cursor := fs.String("cursor", "", "cursor token for deep pagination ('*' for first page)")
	mailto := fs.String("mailto", cli.cfg.Scholar.Mailto, "contact email forwarded to OpenAlex")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing work ID.", "openalex", "usage: workbench scholar cited-by <work-id>"), *jsonOutput)
	}

	client := scholar.NewOpenAlexClient(*mailto)
	result, err := client.CitedBy(cli.ctx, fs.Arg(0), scholar.CitedByOptions{
		FromPublicationDate: *from,
		ToPublicationDate:   *to,
		PerPage:             *perPage,
		Cursor:              *cursor,
	})
	if err != nil {
		return emit(envelope.Fail("OpenAlex cited-by lookup failed.", "openalex", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(result, fmt.Sprintf("Cited by %d works.", result.TotalCount), "openalex")
	return emit(resp, *jsonOutput)
}

func cmdScholarJournalWorks(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("scholar journal-works", flag.ExitOnError)
	query := fs.String("query", "", "query string applied to works")
	filters := fs.String("filters", "", "raw Crossref filter string (e.g. from-pub-date:2020-01-01)")
	sort := fs.String("sort", "", "Crossref sort field (score, published, updated, ...)")
	order := fs.String("order", "", "sort direction (asc or desc)")
	rows := fs.Int("rows", 0, "maximum results to return (1-1000)")
	offset := fs.Int("offset", 0, "offset for pagination (incompatible with cursor)")
	cursor := fs.String("cursor", "", "cursor token for deep paging ('*' for first page)")
	sample := fs.Int("sample", 0, "random sample size (cannot combine with cursor)")
	mailto := fs.String("mailto", cli.cfg.Scholar.Mailto, "contact email forwarded to Crossref (recommended)")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing ISSN.", "crossref", "usage: workbench scholar journal-works <issn>"), *jsonOutput)
	}

	client := scholar.NewCrossrefClient(*mailto)
	result, err := client.JournalWorks(cli.ctx, fs.Arg(0), scholar.JournalWorksOptions{
		Query:  *query,
		Filter: *filters,
		Sort:   *sort,
		Order:  *order,
		Rows:   *rows,
		Offset: *offset,
		Cursor: *cursor,
		Sample: *sample,
	})
	if err != nil {
		return emit(envelope.Fail("Crossref journal works lookup failed.", "crossref", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(result, fmt.Sprintf("%d total results.", result.TotalResults), "crossref")
	return emit(resp, *jsonOutput)
}

func cmdKnowledgeRetrieve(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("knowledge retrieve", flag.ExitOnError)
	topK := fs.Int("top-k", 0, "override the number of chunks returned")
	searchMethod := fs.String("search-method", "", "retrieval method (hybrid_search, semantic_search, full_text_search, keyword_search)")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return emit(envelope.Fail("Missing query.", "knowledge", "usage: workbench knowledge retrieve <query>"), *jsonOutput)
	}
	if !cli.secrets.HasDify() {
		return emit(envelope.Fail("Dify is not configured.", "knowledge", "add a [dify] table to the secrets file"), *jsonOutput)
	}

	client, err := knowledge.NewClient(knowledge.Config{
		BaseURL:   cli.secrets.Dify.BaseURL,
		APIKey:    cli.secrets.Dify.APIKey,
		DatasetID: cli.secrets.Dify.DatasetID,
	}, nil)
	if err != nil {
		return emit(envelope.Fail("Failed to initialise Dify client.", "knowledge", err.Error()), *jsonOutput)
	}

	var model *knowledge.RetrievalModel
	if *topK > 0 || *searchMethod != "" {
		model = &knowledge.RetrievalModel{TopK: *topK, SearchMethod: *searchMethod}
	}
	result, err := client.Retrieve(cli.ctx, fs.Arg(0), model)
	if err != nil {
		return emit(envelope.Fail("Knowledge base retrieval failed.", "knowledge", err.Error()), *jsonOutput)
	}

	resp := envelope.Ok(result, fmt.Sprintf("%d chunks retrieved.", len(result.Records)), "knowledge")
	code := emit(resp, *jsonOutput)
	if !*jsonOutput {
		for _, record := range result.Records {
			fmt.Printf("\n[%.3f] %s\n%s\n", record.Score, record.DocumentName, record.Content)
		}
	}
	return code
}
