package research

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func searchServer(t *testing.T, status int, response any) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tvly-test" {
			t.Errorf("authorization = %q", auth)
		}
		w.WriteHeader(status)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSearchSuccess(t *testing.T) {
	server := searchServer(t, http.StatusOK, SearchResponse{
		Query:  "golang concurrency",
		Answer: "Use goroutines.",
		Results: []SearchResult{
			{Title: "Go Blog", URL: "https://go.dev/blog", Content: "...", Score: 0.9},
		},
	})
	client := NewClient("tvly-test", WithBaseURL(server.URL))

	resp, err := client.Search(context.Background(), "golang concurrency", SearchOptions{MaxResults: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Answer != "Use goroutines." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if len(resp.Results) != 1 || resp.Results[0].Title != "Go Blog" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestSearchSendsOptions(t *testing.T) {
	var seen map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seen)
		_ = json.NewEncoder(w).Encode(SearchResponse{})
	}))
	t.Cleanup(server.Close)
	client := NewClient("tvly-test", WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "q", SearchOptions{
		SearchDepth:   "advanced",
		MaxResults:    5,
		IncludeAnswer: true,
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if seen["query"] != "q" || seen["search_depth"] != "advanced" || seen["max_results"] != float64(5) {
		t.Errorf("request body = %v", seen)
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := searchServer(t, http.StatusUnauthorized, map[string]string{"error": "bad key"})
	client := NewClient("tvly-test", WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "anything", SearchOptions{})
	var searchErr *SearchError
	if !errors.As(err, &searchErr) {
		t.Fatalf("error type = %T", err)
	}
	if searchErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", searchErr.StatusCode)
	}
	if !strings.Contains(searchErr.Error(), "anything") {
		t.Errorf("error text = %q", searchErr.Error())
	}
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := NewClient("tvly-test")
	if _, err := client.Search(context.Background(), "  ", SearchOptions{}); err == nil {
		t.Error("Search() with empty query succeeded")
	}
}

func TestNewCacheDisabledWithoutAddr(t *testing.T) {
	if cache := NewCache(CacheConfig{}); cache != nil {
		t.Error("NewCache with empty addr should return nil")
	}
	// nil cache is safe to use
	var c *Cache
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("nil cache reported a hit")
	}
	c.Set(context.Background(), "k", []byte("v"))
	if err := c.Close(); err != nil {
		t.Errorf("nil cache Close() = %v", err)
	}
}

func TestTavilyToolSuccessEnvelope(t *testing.T) {
	server := searchServer(t, http.StatusOK, SearchResponse{Query: "q", Answer: "a"})
	tavilyTool := NewTavilyTool(NewClient("tvly-test", WithBaseURL(server.URL)))

	result, err := tavilyTool.Invoke(context.Background(), "q")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	envelope, ok := result.(ToolResult)
	if !ok {
		t.Fatalf("result type = %T", result)
	}
	if envelope.Status != "success" || envelope.Data.Answer != "a" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestTavilyToolErrorEnvelope(t *testing.T) {
	server := searchServer(t, http.StatusInternalServerError, nil)
	tavilyTool := NewTavilyTool(NewClient("tvly-test", WithBaseURL(server.URL)))

	result, err := tavilyTool.Invoke(context.Background(), map[string]any{"query": "q"})
	if err != nil {
		t.Fatalf("Invoke() should absorb search failures, got error %v", err)
	}
	envelope := result.(ToolResult)
	if envelope.Status != "error" || envelope.Message == "" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestSearchInputParsesOptions(t *testing.T) {
	query, opts, err := searchInput(map[string]any{
		"query": "llm agents",
		"options": map[string]any{
			"search_depth":   "basic",
			"max_results":    float64(2),
			"include_answer": true,
			"topic":          "news",
		},
	})
	if err != nil {
		t.Fatalf("searchInput() error = %v", err)
	}
	if query != "llm agents" {
		t.Errorf("query = %q", query)
	}
	want := SearchOptions{SearchDepth: "basic", MaxResults: 2, IncludeAnswer: true, Topic: "news"}
	if opts != want {
		t.Errorf("opts = %+v, want %+v", opts, want)
	}

	if _, _, err := searchInput(map[string]any{"options": map[string]any{}}); err == nil {
		t.Error("missing query accepted")
	}
	if _, _, err := searchInput(12); err == nil {
		t.Error("scalar input accepted")
	}
}
