package main

import (
	"flag"
	"fmt"
	"os/exec"
	goruntime "runtime"
	"strings"

	workbench "github.com/couloir/workbench"
	"github.com/couloir/workbench/config"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/tool"
)

func cmdInfo(cli *cliContext) int {
	fmt.Printf("Workbench v%s\n", workbench.Version)
	fmt.Println("Workspace automation toolkit: agents, document workflows, and research clients.")
	fmt.Println()
	fmt.Printf("Workspace root : %s\n", cli.cfg.Workspace.Root)
	fmt.Printf("Docs directory : %s\n", cli.cfg.Workspace.DocsDir)
	fmt.Printf("Platform       : %s/%s\n", goruntime.GOOS, goruntime.GOARCH)
	fmt.Printf("Config file    : %s\n", config.Path())
	fmt.Printf("Secrets file   : %s\n", config.SecretsPath())
	fmt.Println()
	fmt.Println("Configured credentials:")
	fmt.Printf("  openai : %v\n", cli.secrets.HasOpenAI())
	fmt.Printf("  tavily : %v\n", cli.secrets.HasTavily())
	fmt.Printf("  neo4j  : %v\n", cli.secrets.HasNeo4j())
	fmt.Printf("  dify   : %v\n", cli.secrets.HasDify())
	return 0
}

// cliToolStatus is one probed external CLI.
type cliToolStatus struct {
	Command   string `json:"command"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
}

func cmdCheck(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	statuses := make([]cliToolStatus, 0, len(cli.cfg.Workspace.CLITools))
	missing := 0
	for _, tc := range cli.cfg.Workspace.CLITools {
		status := cliToolStatus{Command: tc.Command, Label: tc.Label}
		if status.Label == "" {
			status.Label = tc.Command
		}
		status.Version = probeVersion(tc)
		status.Available = status.Version != ""
		if !status.Available {
			missing++
		}
		statuses = append(statuses, status)
	}

	message := fmt.Sprintf("%d/%d external tools available.", len(statuses)-missing, len(statuses))
	resp := envelope.Ok(map[string]any{"tools": statuses}, message, "check")
	if !*jsonOutput {
		for _, status := range statuses {
			mark := "ok  "
			detail := status.Version
			if !status.Available {
				mark = "MISS"
				detail = "not found"
			}
			fmt.Printf("[%s] %-12s %s\n", mark, status.Label, detail)
		}
	}
	return emit(resp, *jsonOutput)
}

// probeVersion runs the CLI's version command and returns the first output
// line, or empty when the binary is missing.
func probeVersion(tc config.CLIToolConfig) string {
	versionArgs := tc.VersionArgs
	if len(versionArgs) == 0 {
		versionArgs = []string{"--version"}
	}
	out, err := exec.Command(tc.Command, versionArgs...).CombinedOutput()
	if err != nil && len(out) == 0 {
		return ""
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		return ""
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return text
}

func cmdTools(cli *cliContext, args []string) int {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	catalog := fs.Bool("catalog", false, "include input/output schemas from the descriptor catalog")
	category := fs.String("category", "", "filter catalog entries by category")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable JSON response")
	_ = fs.Parse(args)

	descriptors := tool.Catalog()
	if *category != "" {
		descriptors = tool.CatalogByCategory(*category)
	}

	if *catalog {
		resp := envelope.Ok(map[string]any{"catalog": descriptors}, fmt.Sprintf("%d catalog entries.", len(descriptors)), "tools")
		if !*jsonOutput {
			for _, d := range descriptors {
				fmt.Printf("%-24s [%s] %s\n", d.Name, d.Category, d.Description)
			}
		}
		return emit(resp, *jsonOutput)
	}

	items := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, map[string]any{
			"name":        d.Name,
			"category":    d.Category,
			"entrypoint":  d.Entrypoint,
			"description": d.Description,
		})
	}
	resp := envelope.Ok(map[string]any{"tools": items}, fmt.Sprintf("%d registered tools.", len(items)), "tools")
	if !*jsonOutput {
		for _, d := range descriptors {
			fmt.Printf("%-24s %s\n", d.Name, d.Description)
		}
	}
	return emit(resp, *jsonOutput)
}
