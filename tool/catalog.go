package tool

import (
	"encoding/json"
	"sort"
)

// Descriptor is the build-time metadata record for one catalog entry. Tool
// entries carry input/output JSON Schemas; agent entries do not.
type Descriptor struct {
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Entrypoint   string          `json:"entrypoint"`
	Tags         []string        `json:"tags"`
	InputSchema  json.RawMessage `json:"input_schema,omitempty"`
	OutputSchema json.RawMessage `json:"output_schema,omitempty"`
}

// Catalog categories.
const (
	CategoryRuntime  = "runtime"
	CategoryResearch = "research"
	CategoryDatabase = "database"
	CategoryWorkflow = "workflow"
	CategoryAgent    = "agent"
)

// ShellInputSchema validates the shell tool's structured input.
const ShellInputSchema = `{
  "type": "object",
  "properties": {
    "command": {"type": "string", "description": "Shell command to execute within the workspace."},
    "timeout": {"type": "integer", "minimum": 1, "description": "Optional timeout override in seconds."}
  },
  "required": ["command"],
  "additionalProperties": false
}`

const shellOutputSchema = `{
  "type": "object",
  "properties": {
    "command": {"type": "string"},
    "exit_code": {"type": "integer"},
    "stdout": {"type": "string"},
    "stderr": {"type": "string"},
    "cwd": {"type": "string"},
    "duration": {"type": "number"},
    "timestamp": {"type": "string"},
    "timed_out": {"type": "boolean"}
  }
}`

// PythonInputSchema validates the python tool's structured input.
const PythonInputSchema = `{
  "type": "object",
  "properties": {
    "code": {"type": "string", "description": "Python source code snippet to execute."},
    "timeout": {"type": "integer", "minimum": 1, "description": "Optional timeout override in seconds."}
  },
  "required": ["code"],
  "additionalProperties": false
}`

const pythonOutputSchema = `{
  "type": "object",
  "properties": {
    "code": {"type": "string"},
    "stdout": {"type": "string"},
    "stderr": {"type": "string"},
    "duration": {"type": "number"},
    "timestamp": {"type": "string"},
    "timed_out": {"type": "boolean"}
  }
}`

// TavilyInputSchema validates the research tool's structured input.
const TavilyInputSchema = `{
  "type": "object",
  "properties": {
    "query": {"type": "string", "description": "Natural language search query."},
    "options": {"type": "object", "description": "Optional Tavily search parameters."}
  },
  "required": ["query"]
}`

const statusOutputSchema = `{
  "type": "object",
  "properties": {
    "status": {"enum": ["success", "error"]},
    "data": {"type": "object"},
    "message": {"type": "string"}
  },
  "required": ["status"]
}`

// Neo4jInputSchema validates the graph tool's structured input.
const Neo4jInputSchema = `{
  "type": "object",
  "properties": {
    "operation": {
      "enum": ["create", "read", "update", "delete"],
      "description": "CRUD operation type; determines access mode for the Cypher query.",
      "default": "read"
    },
    "statement": {"type": "string", "description": "Cypher statement to execute."},
    "parameters": {"type": "object", "description": "Optional parameters passed to the statement."},
    "database": {"type": "string", "description": "Optional database override."}
  },
  "required": ["statement"]
}`

const neo4jOutputSchema = `{
  "type": "object",
  "properties": {
    "status": {"enum": ["success", "error"]},
    "records": {"type": "array"},
    "summary": {"type": "object"},
    "message": {"type": "string"}
  },
  "required": ["status"]
}`

// DocumentInputSchema validates the document tool's structured input.
const DocumentInputSchema = `{
  "type": "object",
  "properties": {
    "workflow": {
      "enum": ["report", "patent_disclosure", "plan", "project_proposal"],
      "description": "Document workflow identifier."
    },
    "topic": {"type": "string", "description": "Topic or subject for the document."},
    "instructions": {"type": "string", "description": "Additional authoring instructions."},
    "audience": {"type": "string", "description": "Intended reader description."},
    "language": {"type": "string", "description": "Output language.", "default": "zh"},
    "skip_research": {"type": "boolean", "description": "Disable the web research stage."}
  },
  "required": ["workflow", "topic"]
}`

var catalog = []Descriptor{
	{
		Name:         "runtime.shell",
		Description:  "Execute a shell command inside the workspace environment.",
		Category:     CategoryRuntime,
		Entrypoint:   "shell",
		Tags:         []string{"exec", "cli"},
		InputSchema:  json.RawMessage(ShellInputSchema),
		OutputSchema: json.RawMessage(shellOutputSchema),
	},
	{
		Name:         "runtime.python",
		Description:  "Execute Python code using the shared workspace interpreter.",
		Category:     CategoryRuntime,
		Entrypoint:   "python",
		Tags:         []string{"exec", "scripting"},
		InputSchema:  json.RawMessage(PythonInputSchema),
		OutputSchema: json.RawMessage(pythonOutputSchema),
	},
	{
		Name:         "research.tavily",
		Description:  "Search the internet using the configured Tavily service.",
		Category:     CategoryResearch,
		Entrypoint:   "tavily",
		Tags:         []string{"web", "search"},
		InputSchema:  json.RawMessage(TavilyInputSchema),
		OutputSchema: json.RawMessage(statusOutputSchema),
	},
	{
		Name:         "database.neo4j",
		Description:  "Execute a Cypher statement against the configured Neo4j database.",
		Category:     CategoryDatabase,
		Entrypoint:   "neo4j",
		Tags:         []string{"graph", "cypher"},
		InputSchema:  json.RawMessage(Neo4jInputSchema),
		OutputSchema: json.RawMessage(neo4jOutputSchema),
	},
	{
		Name:         "docs.report",
		Description:  "Business and technical reports with clear recommendations.",
		Category:     CategoryWorkflow,
		Entrypoint:   "document",
		Tags:         []string{"drafting"},
		InputSchema:  json.RawMessage(DocumentInputSchema),
		OutputSchema: json.RawMessage(statusOutputSchema),
	},
	{
		Name:         "docs.patent_disclosure",
		Description:  "Patent disclosure drafts capturing inventive details.",
		Category:     CategoryWorkflow,
		Entrypoint:   "document",
		Tags:         []string{"drafting", "legal"},
		InputSchema:  json.RawMessage(DocumentInputSchema),
		OutputSchema: json.RawMessage(statusOutputSchema),
	},
	{
		Name:         "docs.plan",
		Description:  "Execution or project plans with milestones and risks.",
		Category:     CategoryWorkflow,
		Entrypoint:   "document",
		Tags:         []string{"drafting", "planning"},
		InputSchema:  json.RawMessage(DocumentInputSchema),
		OutputSchema: json.RawMessage(statusOutputSchema),
	},
	{
		Name:         "docs.project_proposal",
		Description:  "Project proposals optimised for stakeholder buy-in.",
		Category:     CategoryWorkflow,
		Entrypoint:   "document",
		Tags:         []string{"drafting"},
		InputSchema:  json.RawMessage(DocumentInputSchema),
		OutputSchema: json.RawMessage(statusOutputSchema),
	},
	{
		Name:        "agents.react",
		Description: "Iterative plan/act/observe agent over the workspace tool set.",
		Category:    CategoryAgent,
		Entrypoint:  "react",
		Tags:        []string{"loop", "planner"},
	},
	{
		Name:        "agents.pipeline",
		Description: "Plan-once pipeline agent that executes a fixed step list.",
		Category:    CategoryAgent,
		Entrypoint:  "pipeline",
		Tags:        []string{"pipeline", "planner"},
	},
}

// Catalog returns the descriptor catalog sorted by name.
func Catalog() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CatalogByCategory filters the catalog to the given categories.
func CatalogByCategory(categories ...string) []Descriptor {
	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	var out []Descriptor
	for _, d := range Catalog() {
		if wanted[d.Category] {
			out = append(out, d)
		}
	}
	return out
}

// Lookup returns the descriptor for a catalog name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range catalog {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
