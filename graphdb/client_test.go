package graphdb

import (
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func TestAccessModeFor(t *testing.T) {
	tests := []struct {
		operation string
		want      neo4j.AccessMode
		wantErr   bool
	}{
		{"read", neo4j.AccessModeRead, false},
		{"", neo4j.AccessModeRead, false},
		{"create", neo4j.AccessModeWrite, false},
		{"update", neo4j.AccessModeWrite, false},
		{"delete", neo4j.AccessModeWrite, false},
		{" READ ", neo4j.AccessModeRead, false},
		{"Delete", neo4j.AccessModeWrite, false},
		{"merge", 0, true},
		{"drop", 0, true},
	}
	for _, tt := range tests {
		got, err := accessModeFor(tt.operation)
		if tt.wantErr {
			if err == nil {
				t.Errorf("accessModeFor(%q) accepted", tt.operation)
			}
			continue
		}
		if err != nil {
			t.Errorf("accessModeFor(%q) error = %v", tt.operation, err)
			continue
		}
		if got != tt.want {
			t.Errorf("accessModeFor(%q) = %v, want %v", tt.operation, got, tt.want)
		}
	}
}

func TestNewClientRequiresURI(t *testing.T) {
	_, err := NewClient(Config{})
	if err == nil {
		t.Fatal("NewClient without URI succeeded")
	}
	if !strings.Contains(err.Error(), "missing connection URI") {
		t.Errorf("error = %v", err)
	}
}

func TestQueryErrorText(t *testing.T) {
	err := &QueryError{Operation: "delete", Message: "boom"}
	if err.Error() != "graphdb delete: boom" {
		t.Errorf("error = %q", err.Error())
	}
	bare := &QueryError{Message: "boom"}
	if bare.Error() != "graphdb: boom" {
		t.Errorf("error = %q", bare.Error())
	}
}

func TestQueryTypeName(t *testing.T) {
	tests := []struct {
		t    neo4j.StatementType
		want string
	}{
		{neo4j.StatementTypeReadOnly, "read_only"},
		{neo4j.StatementTypeReadWrite, "read_write"},
		{neo4j.StatementTypeWriteOnly, "write_only"},
		{neo4j.StatementTypeSchemaWrite, "schema_write"},
		{neo4j.StatementTypeUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := queryTypeName(tt.t); got != tt.want {
			t.Errorf("queryTypeName(%v) = %q, want %q", tt.t, got, tt.want)
		}
	}
}

func TestQueryInput(t *testing.T) {
	q, err := queryInput("MATCH (n) RETURN n LIMIT 1")
	if err != nil || q.Statement == "" || q.Operation != "" {
		t.Errorf("string input: %+v %v", q, err)
	}

	q, err = queryInput(map[string]any{
		"operation":  "create",
		"statement":  "CREATE (n:Topic {name: $name})",
		"parameters": map[string]any{"name": "go"},
		"database":   "research",
	})
	if err != nil {
		t.Fatalf("queryInput() error = %v", err)
	}
	if q.Operation != "create" || q.Database != "research" {
		t.Errorf("query = %+v", q)
	}
	if q.Parameters["name"] != "go" {
		t.Errorf("parameters = %v", q.Parameters)
	}

	if _, err := queryInput(map[string]any{"operation": "read"}); err == nil {
		t.Error("missing statement accepted")
	}
	if _, err := queryInput(7); err == nil {
		t.Error("scalar input accepted")
	}
}
