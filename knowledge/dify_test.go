package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func difyConfig(baseURL string) Config {
	return Config{BaseURL: baseURL, APIKey: "dataset-key", DatasetID: "ds-1"}
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "https://api.dify.ai"}, nil); err == nil {
		t.Error("incomplete config accepted")
	}
	if _, err := NewClient(difyConfig("https://api.dify.ai/"), nil); err != nil {
		t.Errorf("NewClient() error = %v", err)
	}
}

func TestRetrieve(t *testing.T) {
	var seenAuth, seenPath string
	var seenBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		seenPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&seenBody)
		w.Write([]byte(`{
			"query": {"content": "carbon capture"},
			"records": [
				{"score": 0.92, "segment": {"content": "chunk text", "document_id": "doc-7", "document": {"name": "whitepaper.pdf"}}}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(difyConfig(server.URL), nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	topK := 4
	result, err := client.Retrieve(context.Background(), "carbon capture", &RetrievalModel{
		SearchMethod: "hybrid_search",
		TopK:         topK,
	})
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if seenAuth != "Bearer dataset-key" {
		t.Errorf("authorization = %q", seenAuth)
	}
	if seenPath != "/v1/datasets/ds-1/retrieve" {
		t.Errorf("path = %q", seenPath)
	}
	if seenBody["query"] != "carbon capture" {
		t.Errorf("request body = %v", seenBody)
	}
	model := seenBody["retrieval_model"].(map[string]any)
	if model["search_method"] != "hybrid_search" || model["top_k"] != float64(4) {
		t.Errorf("retrieval model = %v", model)
	}

	if result.Query != "carbon capture" || len(result.Records) != 1 {
		t.Fatalf("result = %+v", result)
	}
	record := result.Records[0]
	if record.Content != "chunk text" || record.Score != 0.92 || record.DocumentName != "whitepaper.pdf" {
		t.Errorf("record = %+v", record)
	}
}

func TestRetrieveDefaultsOmitModel(t *testing.T) {
	var seenBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&seenBody)
		w.Write([]byte(`{"records": []}`))
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(difyConfig(server.URL), nil)
	result, err := client.Retrieve(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if _, present := seenBody["retrieval_model"]; present {
		t.Error("retrieval_model sent without overrides")
	}
	// Query echoed back when the server omits it.
	if result.Query != "q" {
		t.Errorf("query = %q", result.Query)
	}
}

func TestRetrieveErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code": "dataset_not_found"}`, http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, _ := NewClient(difyConfig(server.URL), nil)
	_, err := client.Retrieve(context.Background(), "q", nil)
	var retrievalErr *RetrievalError
	if !errors.As(err, &retrievalErr) {
		t.Fatalf("error type = %T", err)
	}
	if retrievalErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", retrievalErr.StatusCode)
	}
}

func TestRetrieveRejectsEmptyQuery(t *testing.T) {
	client, _ := NewClient(difyConfig("https://api.dify.ai"), nil)
	if _, err := client.Retrieve(context.Background(), "  ", nil); err == nil {
		t.Error("empty query accepted")
	}
}
