// Package knowledge retrieves chunks from a Dify knowledge base dataset.
package knowledge

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

// RetrievalError reports a failed retrieval request.
type RetrievalError struct {
	StatusCode int
	Message    string
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dify retrieval failed with status %d: %s", e.StatusCode, e.Message)
	}
	return "dify retrieval failed: " + e.Message
}

// Config carries the Dify connection settings.
type Config struct {
	BaseURL   string // e.g. https://api.dify.ai
	APIKey    string
	DatasetID string
}

// Client calls the Dify dataset retrieval API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Dify client.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" || cfg.DatasetID == "" {
		return nil, &RetrievalError{Message: "base URL, API key, and dataset ID are all required"}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// RetrievalModel overrides the dataset's server-side retrieval settings.
// Zero values defer to the server configuration.
type RetrievalModel struct {
	SearchMethod          string   `json:"search_method,omitempty"` // hybrid_search, semantic_search, full_text_search, keyword_search
	TopK                  int      `json:"top_k,omitempty"`
	RerankingEnable       *bool    `json:"reranking_enable,omitempty"`
	RerankingProvider     string   `json:"-"`
	RerankingModel        string   `json:"-"`
	ScoreThreshold        *float64 `json:"score_threshold,omitempty"`
	ScoreThresholdEnabled *bool    `json:"score_threshold_enabled,omitempty"`
	SemanticWeight        *float64 `json:"weights,omitempty"`
}

// Record is one retrieved chunk.
type Record struct {
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
	DocumentID   string  `json:"document_id,omitempty"`
	DocumentName string  `json:"document_name,omitempty"`
}

// Result is the decoded retrieval response.
type Result struct {
	Query   string   `json:"query"`
	Records []Record `json:"records"`
}

type retrieveRequest struct {
	Query          string          `json:"query"`
	RetrievalModel *retrievalModel `json:"retrieval_model,omitempty"`
}

type retrievalModel struct {
	RetrievalModel
	RerankingMode *rerankingMode `json:"reranking_mode,omitempty"`
}

type rerankingMode struct {
	RerankingProviderName string `json:"reranking_provider_name"`
	RerankingModelName    string `json:"reranking_model_name"`
}

// Retrieve queries the dataset. A nil model uses the server defaults.
func (c *Client) Retrieve(ctx context.Context, query string, model *RetrievalModel) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &RetrievalError{Message: "empty query"}
	}

	reqBody := retrieveRequest{Query: query}
	if model != nil {
		wrapped := &retrievalModel{RetrievalModel: *model}
		if model.RerankingProvider != "" || model.RerankingModel != "" {
			wrapped.RerankingMode = &rerankingMode{
				RerankingProviderName: model.RerankingProvider,
				RerankingModelName:    model.RerankingModel,
			}
		}
		reqBody.RetrievalModel = wrapped
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}

	endpoint := fmt.Sprintf("%s/v1/datasets/%s/retrieve", c.cfg.BaseURL, c.cfg.DatasetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RetrievalError{Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, &RetrievalError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RetrievalError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(payload))}
	}

	var decoded struct {
		Query struct {
			Content string `json:"content"`
		} `json:"query"`
		Records []struct {
			Score   float64 `json:"score"`
			Segment struct {
				Content    string `json:"content"`
				DocumentID string `json:"document_id"`
				Document   struct {
					Name string `json:"name"`
				} `json:"document"`
			} `json:"segment"`
		} `json:"records"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, &RetrievalError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}

	result := &Result{Query: decoded.Query.Content, Records: make([]Record, len(decoded.Records))}
	if result.Query == "" {
		result.Query = query
	}
	for i, record := range decoded.Records {
		result.Records[i] = Record{
			Content:      record.Segment.Content,
			Score:        record.Score,
			DocumentID:   record.Segment.DocumentID,
			DocumentName: record.Segment.Document.Name,
		}
	}
	return result, nil
}
