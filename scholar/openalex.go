package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultOpenAlexBaseURL is the hosted OpenAlex API endpoint.
const DefaultOpenAlexBaseURL = "https://api.openalex.org"

// OpenAlexError reports a failed OpenAlex request.
type OpenAlexError struct {
	StatusCode int
	Message    string
}

func (e *OpenAlexError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("openalex request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return "openalex request failed: " + e.Message
}

// OpenAlexClient calls the OpenAlex REST API.
type OpenAlexClient struct {
	baseURL string
	mailto  string
	http    *http.Client
}

// NewOpenAlexClient creates a client. mailto joins OpenAlex's polite pool.
func NewOpenAlexClient(mailto string, opts ...ScholarOption) *OpenAlexClient {
	c := &OpenAlexClient{
		baseURL: DefaultOpenAlexBaseURL,
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

// WorkByDOI looks up a work record by DOI. The DOI may be bare ("10.1234/x")
// or carry the https://doi.org/ prefix.
func (c *OpenAlexClient) WorkByDOI(ctx context.Context, doi string) (map[string]any, error) {
	doi = strings.TrimSpace(doi)
	if doi == "" {
		return nil, &OpenAlexError{Message: "empty DOI"}
	}
	doi = strings.TrimPrefix(strings.TrimPrefix(doi, "https://doi.org/"), "http://doi.org/")

	endpoint := fmt.Sprintf("%s/works/https://doi.org/%s", c.baseURL, doi)
	if c.mailto != "" {
		endpoint += "?mailto=" + url.QueryEscape(c.mailto)
	}

	payload, status, err := getJSON(ctx, c.http, endpoint)
	if err != nil {
		return nil, &OpenAlexError{StatusCode: status, Message: err.Error()}
	}
	var work map[string]any
	if err := json.Unmarshal(payload, &work); err != nil {
		return nil, &OpenAlexError{StatusCode: status, Message: "malformed response: " + err.Error()}
	}
	return work, nil
}

// CitedByOptions tunes a cited-by listing.
type CitedByOptions struct {
	FromPublicationDate string // YYYY-MM-DD
	ToPublicationDate   string // YYYY-MM-DD
	PerPage             int    // OpenAlex max 200
	Cursor              string // "*" for the first page
}

// CitedByResult is the decoded citing-works listing.
type CitedByResult struct {
	TotalCount int              `json:"total_count"`
	NextCursor string           `json:"next_cursor,omitempty"`
	Results    []map[string]any `json:"results"`
}

// CitedBy lists works citing the given OpenAlex work ID (e.g. W2072484418).
func (c *OpenAlexClient) CitedBy(ctx context.Context, workID string, opts CitedByOptions) (*CitedByResult, error) {
	workID = strings.TrimSpace(workID)
	if workID == "" {
		return nil, &OpenAlexError{Message: "empty work ID"}
	}

	filters := []string{"cites:" + workID}
	if opts.FromPublicationDate != "" {
		filters = append(filters, "from_publication_date:"+opts.FromPublicationDate)
	}
	if opts.ToPublicationDate != "" {
		filters = append(filters, "to_publication_date:"+opts.ToPublicationDate)
	}

	params := url.Values{}
	params.Set("filter", strings.Join(filters, ","))
	if opts.PerPage > 0 {
		params.Set("per-page", strconv.Itoa(opts.PerPage))
	}
	if opts.Cursor != "" {
		params.Set("cursor", opts.Cursor)
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	endpoint := c.baseURL + "/works?" + params.Encode()
	payload, status, err := getJSON(ctx, c.http, endpoint)
	if err != nil {
		return nil, &OpenAlexError{StatusCode: status, Message: err.Error()}
	}

	var decoded struct {
		Meta struct {
			Count      int    `json:"count"`
			NextCursor string `json:"next_cursor"`
		} `json:"meta"`
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &OpenAlexError{StatusCode: status, Message: "malformed response: " + err.Error()}
	}
	return &CitedByResult{
		TotalCount: decoded.Meta.Count,
		NextCursor: decoded.Meta.NextCursor,
		Results:    decoded.Results,
	}, nil
}
