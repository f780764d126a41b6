// Package research provides web search through the Tavily API, with an
// optional Redis result cache, and exposes it as an agent tool.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the hosted Tavily endpoint.
const DefaultBaseURL = "https://api.tavily.com"

// SearchError reports a failed search request.
type SearchError struct {
	Query      string
	StatusCode int
	Message    string
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("tavily search %q failed with status %d: %s", e.Query, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tavily search %q failed: %s", e.Query, e.Message)
}

// SearchOptions tunes a search request. Zero values are omitted from the
// request so the service defaults apply.
type SearchOptions struct {
	SearchDepth   string `json:"search_depth,omitempty"` // "basic" or "advanced"
	MaxResults    int    `json:"max_results,omitempty"`
	IncludeAnswer bool   `json:"include_answer,omitempty"`
	Topic         string `json:"topic,omitempty"`
}

// SearchResult is one hit returned by the service.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse is the service's answer to one query.
type SearchResponse struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
}

// Client calls the Tavily search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	cache   *Cache
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithCache attaches a result cache.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a Tavily client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	Query string `json:"query"`
	SearchOptions
}

// Search runs one query. Cache hits short-circuit the network call; cache
// failures degrade to a live search.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &SearchError{Message: "empty query"}
	}

	cacheKey := cacheKeyFor(query, opts)
	if c.cache != nil {
		if cached, ok := c.cache.Get(ctx, cacheKey); ok {
			var resp SearchResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return &resp, nil
			}
		}
	}

	body, err := json.Marshal(searchRequest{Query: query, SearchOptions: opts})
	if err != nil {
		return nil, &SearchError{Query: query, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, &SearchError{Query: query, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, &SearchError{Query: query, Message: err.Error()}
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResp.Body, 4<<20))
	if err != nil {
		return nil, &SearchError{Query: query, StatusCode: httpResp.StatusCode, Message: err.Error()}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &SearchError{Query: query, StatusCode: httpResp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	var resp SearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &SearchError{Query: query, StatusCode: httpResp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	if resp.Query == "" {
		resp.Query = query
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, payload)
	}
	return &resp, nil
}

func cacheKeyFor(query string, opts SearchOptions) string {
	params, _ := json.Marshal(opts)
	return fmt.Sprintf("tavily:%s:%s", query, params)
}
