// Package scholar provides thin clients for scholarly metadata services:
// Crossref journal works and OpenAlex work lookups. Both services ask polite
// callers to identify themselves with a mailto parameter, which the clients
// forward on every request.
package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultCrossrefBaseURL is the hosted Crossref API endpoint.
const DefaultCrossrefBaseURL = "https://api.crossref.org"

// CrossrefError reports a failed Crossref request.
type CrossrefError struct {
	StatusCode int
	Message    string
}

func (e *CrossrefError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("crossref request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return "crossref request failed: " + e.Message
}

// CrossrefClient calls the Crossref REST API.
type CrossrefClient struct {
	baseURL string
	mailto  string
	http    *http.Client
}

// NewCrossrefClient creates a client. mailto is optional but recommended;
// Crossref routes identified traffic to a faster pool.
func NewCrossrefClient(mailto string, opts ...ScholarOption) *CrossrefClient {
	c := &CrossrefClient{
		baseURL: DefaultCrossrefBaseURL,
		mailto:  mailto,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.baseURL != "" {
		c.baseURL = strings.TrimRight(s.baseURL, "/")
	}
	if s.http != nil {
		c.http = s.http
	}
	return c
}

// JournalWorksOptions tunes a journal works query. Zero values are omitted.
type JournalWorksOptions struct {
	Query  string
	Filter string // raw Crossref filter string, e.g. "from-pub-date:2020-01-01"
	Sort   string
	Order  string // asc or desc
	Rows   int    // 1-1000
	Offset int
	Cursor string // "*" for the first page
	Sample int
	Select []string
}

// JournalWorksResult is the decoded works listing.
type JournalWorksResult struct {
	TotalResults int              `json:"total_results"`
	NextCursor   string           `json:"next_cursor,omitempty"`
	Items        []map[string]any `json:"items"`
}

// JournalWorks calls /journals/{issn}/works.
func (c *CrossrefClient) JournalWorks(ctx context.Context, issn string, opts JournalWorksOptions) (*JournalWorksResult, error) {
	issn = strings.TrimSpace(issn)
	if issn == "" {
		return nil, &CrossrefError{Message: "empty ISSN"}
	}
	if opts.Cursor != "" && opts.Offset > 0 {
		return nil, &CrossrefError{Message: "cursor and offset cannot be combined"}
	}
	if opts.Cursor != "" && opts.Sample > 0 {
		return nil, &CrossrefError{Message: "cursor and sample cannot be combined"}
	}

	params := url.Values{}
	if opts.Query != "" {
		params.Set("query", opts.Query)
	}
	if opts.Filter != "" {
		params.Set("filter", opts.Filter)
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Order != "" {
		params.Set("order", opts.Order)
	}
	if opts.Rows > 0 {
		params.Set("rows", strconv.Itoa(opts.Rows))
	}
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}
	if opts.Sample > 0 {
		params.Set("sample", strconv.Itoa(opts.Sample))
	}
	if len(opts.Select) > 0 {
		params.Set("select", strings.Join(opts.Select, ","))
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	endpoint := fmt.Sprintf("%s/journals/%s/works", c.baseURL, url.PathEscape(issn))
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	payload, status, err := getJSON(ctx, c.http, endpoint)
	if err != nil {
		return nil, &CrossrefError{StatusCode: status, Message: err.Error()}
	}

	var decoded struct {
		Message struct {
			TotalResults int              `json:"total-results"`
			NextCursor   string           `json:"next-cursor"`
			Items        []map[string]any `json:"items"`
		} `json:"message"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &CrossrefError{StatusCode: status, Message: "malformed response: " + err.Error()}
	}
	return &JournalWorksResult{
		TotalResults: decoded.Message.TotalResults,
		NextCursor:   decoded.Message.NextCursor,
		Items:        decoded.Message.Items,
	}, nil
}

type settings struct {
	baseURL string
	http    *http.Client
}

// ScholarOption configures the metadata clients.
type ScholarOption func(*settings)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(u string) ScholarOption {
	return func(s *settings) { s.baseURL = u }
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(h *http.Client) ScholarOption {
	return func(s *settings) { s.http = h }
}

// getJSON fetches a URL and returns the raw body on a 200, or an error with
// the body text otherwise.
func getJSON(ctx context.Context, client *http.Client, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(payload)))
	}
	return payload, resp.StatusCode, nil
}
