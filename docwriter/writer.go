package docwriter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couloir/workbench/llm"
	"github.com/couloir/workbench/logging"
	"github.com/couloir/workbench/research"
)

// Model purposes accepted by Config.Purpose.
const (
	PurposeGeneral      = "general"
	PurposeDeepResearch = "deep_research"
	PurposeCreative     = "creative"
)

// Config drives one document-generation run.
type Config struct {
	Workflow        string
	Topic           string
	Instructions    string
	Audience        string
	Language        string // default "zh"
	IncludeResearch bool
	SearchQuery     string // defaults to the topic
	IncludeAIReview bool
	Temperature     float64 // default 0.4
	Purpose         string  // general, deep_research, creative
	ModelOverride   string
}

// Result is the outcome of a run.
type Result struct {
	Workflow    string `json:"workflow"`
	Topic       string `json:"topic"`
	Language    string `json:"language"`
	Draft       string `json:"draft"`
	AIReview    string `json:"ai_review,omitempty"`
	Research    string `json:"research,omitempty"`
	Path        string `json:"path,omitempty"`
	GeneratedAt string `json:"generated_at"`
}

// Writer runs document workflows. The search client is optional; without one
// the research stage is skipped.
type Writer struct {
	model   llm.Client
	router  *llm.Router
	search  *research.Client
	docsDir string
}

// NewWriter creates a Writer. docsDir may be empty, in which case drafts are
// returned but not persisted.
func NewWriter(model llm.Client, router *llm.Router, search *research.Client, docsDir string) *Writer {
	if router == nil {
		router = llm.NewRouter("")
	}
	return &Writer{model: model, router: router, search: search, docsDir: docsDir}
}

// Run executes the workflow stages in order.
func (w *Writer) Run(ctx context.Context, cfg Config) (*Result, error) {
	workflow, err := ParseWorkflow(cfg.Workflow)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return nil, fmt.Errorf("docwriter: topic is required")
	}
	if cfg.Language == "" {
		cfg.Language = "zh"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.4
	}

	result := &Result{
		Workflow:    workflow.Key,
		Topic:       cfg.Topic,
		Language:    cfg.Language,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if cfg.IncludeResearch && w.search != nil {
		result.Research = w.researchStage(ctx, cfg)
	}

	draft, err := w.draftStage(ctx, workflow, cfg, result.Research)
	if err != nil {
		return nil, err
	}
	result.Draft = draft

	if cfg.IncludeAIReview {
		review, err := w.reviewStage(ctx, workflow, cfg, draft)
		if err != nil {
			return nil, err
		}
		result.AIReview = review
	}

	if w.docsDir != "" {
		path, err := w.persist(workflow, cfg, result)
		if err != nil {
			return nil, err
		}
		result.Path = path
	}
	return result, nil
}

// researchStage gathers supporting context. Search failures degrade to an
// unreferenced draft rather than failing the run.
func (w *Writer) researchStage(ctx context.Context, cfg Config) string {
	query := cfg.SearchQuery
	if query == "" {
		query = cfg.Topic
	}
	resp, err := w.search.Search(ctx, query, research.SearchOptions{
		MaxResults:    5,
		IncludeAnswer: true,
	})
	if err != nil {
		logging.Named("docwriter").Warn("research stage failed", "query", query, "error", err)
		return ""
	}

	var sb strings.Builder
	if resp.Answer != "" {
		sb.WriteString(resp.Answer)
		sb.WriteString("\n\n")
	}
	for _, hit := range resp.Results {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", hit.Title, hit.URL, hit.Content)
	}
	return strings.TrimSpace(sb.String())
}

func (w *Writer) draftStage(ctx context.Context, workflow Workflow, cfg Config, researchNotes string) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a %s document about: %s\n\n", workflow.Key, cfg.Topic)
	fmt.Fprintf(&sb, "Follow this structure:\n%s\n\n", strings.ReplaceAll(workflow.Template, "{topic}", cfg.Topic))
	fmt.Fprintf(&sb, "Write in %s. Keep the tone %s.\n", cfg.Language, workflow.Tone)
	if cfg.Audience != "" {
		fmt.Fprintf(&sb, "Intended audience: %s.\n", cfg.Audience)
	}
	if cfg.Instructions != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n", cfg.Instructions)
	}
	if researchNotes != "" {
		fmt.Fprintf(&sb, "\nGround the content in this research:\n%s\n", researchNotes)
	}

	draft, err := w.model.Generate(ctx, llm.Request{
		Model:       w.router.Resolve(routerPurpose(cfg.Purpose), cfg.ModelOverride),
		System:      "You are a professional technical writer. Produce complete, well-structured Markdown documents.",
		Prompt:      sb.String(),
		Temperature: &cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("docwriter: draft stage: %w", err)
	}
	return strings.TrimSpace(draft), nil
}

func (w *Writer) reviewStage(ctx context.Context, workflow Workflow, cfg Config, draft string) (string, error) {
	prompt := fmt.Sprintf(
		"Review the following %s draft. List concrete improvements for accuracy, structure, and clarity, then give an overall verdict. Respond in %s.\n\n%s",
		workflow.Key, cfg.Language, draft)
	review, err := w.model.Generate(ctx, llm.Request{
		Model:  w.router.Resolve(routerPurpose(cfg.Purpose), cfg.ModelOverride),
		System: "You are a meticulous editor reviewing documents before publication.",
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("docwriter: review stage: %w", err)
	}
	return strings.TrimSpace(review), nil
}

func (w *Writer) persist(workflow Workflow, cfg Config, result *Result) (string, error) {
	if err := os.MkdirAll(w.docsDir, 0o755); err != nil {
		return "", fmt.Errorf("docwriter: create docs dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s.md", workflow.Key, slugify(cfg.Topic), time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(w.docsDir, name)

	var sb strings.Builder
	sb.WriteString(result.Draft)
	if result.AIReview != "" {
		sb.WriteString("\n\n---\n\n## Review Notes\n\n")
		sb.WriteString(result.AIReview)
	}
	sb.WriteString("\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("docwriter: write draft: %w", err)
	}
	return path, nil
}

func routerPurpose(purpose string) llm.Purpose {
	if strings.EqualFold(strings.TrimSpace(purpose), PurposeDeepResearch) {
		return llm.PurposeDeepResearch
	}
	return llm.PurposeChat
}

// slugify reduces a topic to a filesystem-safe fragment.
func slugify(s string) string {
	var sb strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(sb.String(), "-")
	if slug == "" {
		return "untitled"
	}
	if len(slug) > 48 {
		slug = slug[:48]
	}
	return slug
}
