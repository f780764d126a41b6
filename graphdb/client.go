// Package graphdb executes Cypher statements against Neo4j and exposes the
// capability as an agent tool. The caller declares the CRUD intent of each
// statement so the session can route reads to read replicas.
package graphdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// CRUD operations accepted by Execute.
const (
	OpCreate = "create"
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

// QueryError reports a rejected or failed statement.
type QueryError struct {
	Operation string
	Message   string
}

func (e *QueryError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("graphdb %s: %s", e.Operation, e.Message)
	}
	return "graphdb: " + e.Message
}

// Config carries the connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Query is one statement to execute.
type Query struct {
	Operation  string         // create, read, update, or delete; empty means read
	Statement  string         // Cypher text
	Parameters map[string]any // optional statement parameters
	Database   string         // optional per-query database override
}

// Result is the serialized outcome of one statement.
type Result struct {
	Records []map[string]any `json:"records"`
	Summary Summary          `json:"summary"`
}

// Summary mirrors the driver's result summary in a JSON-friendly shape.
type Summary struct {
	Query            string         `json:"query"`
	Database         string         `json:"database,omitempty"`
	QueryType        string         `json:"query_type"`
	AvailableAfterMs int64          `json:"available_after_ms"`
	ConsumedAfterMs  int64          `json:"consumed_after_ms"`
	Counters         map[string]int `json:"counters,omitempty"`
}

// accessModeFor maps a CRUD operation to a session access mode. Unknown
// operations are rejected rather than defaulted so a typo never writes.
func accessModeFor(operation string) (neo4j.AccessMode, error) {
	switch strings.ToLower(strings.TrimSpace(operation)) {
	case OpRead, "":
		return neo4j.AccessModeRead, nil
	case OpCreate, OpUpdate, OpDelete:
		return neo4j.AccessModeWrite, nil
	default:
		return 0, &QueryError{Operation: operation, Message: "unknown operation (expected create, read, update, or delete)"}
	}
}

// Client wraps a Neo4j driver for statement execution.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient connects a client. The connection is lazy; use Verify to probe
// reachability.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, &QueryError{Message: "missing connection URI"}
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, &QueryError{Message: "open driver: " + err.Error()}
	}
	return &Client{driver: driver, database: cfg.Database}, nil
}

// Verify probes server connectivity.
func (c *Client) Verify(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return &QueryError{Message: "verify connectivity: " + err.Error()}
	}
	return nil
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Execute runs one statement in a session matching the declared operation.
func (c *Client) Execute(ctx context.Context, q Query) (*Result, error) {
	if strings.TrimSpace(q.Statement) == "" {
		return nil, &QueryError{Operation: q.Operation, Message: "empty statement"}
	}
	mode, err := accessModeFor(q.Operation)
	if err != nil {
		return nil, err
	}

	database := q.Database
	if database == "" {
		database = c.database
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, q.Statement, q.Parameters)
	if err != nil {
		return nil, &QueryError{Operation: q.Operation, Message: err.Error()}
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, &QueryError{Operation: q.Operation, Message: err.Error()}
	}
	summary, err := result.Consume(ctx)
	if err != nil {
		return nil, &QueryError{Operation: q.Operation, Message: err.Error()}
	}

	out := &Result{
		Records: make([]map[string]any, len(records)),
		Summary: serializeSummary(summary),
	}
	for i, record := range records {
		out.Records[i] = record.AsMap()
	}
	return out, nil
}

func serializeSummary(summary neo4j.ResultSummary) Summary {
	s := Summary{
		Query:            summary.Query().Text(),
		QueryType:        queryTypeName(summary.StatementType()),
		AvailableAfterMs: summary.ResultAvailableAfter().Milliseconds(),
		ConsumedAfterMs:  summary.ResultConsumedAfter().Milliseconds(),
	}
	if db := summary.Database(); db != nil {
		s.Database = db.Name()
	}
	if counters := summary.Counters(); counters.ContainsUpdates() {
		s.Counters = map[string]int{
			"nodes_created":         counters.NodesCreated(),
			"nodes_deleted":         counters.NodesDeleted(),
			"relationships_created": counters.RelationshipsCreated(),
			"relationships_deleted": counters.RelationshipsDeleted(),
			"properties_set":        counters.PropertiesSet(),
			"labels_added":          counters.LabelsAdded(),
		}
	}
	return s
}

func queryTypeName(t neo4j.StatementType) string {
	switch t {
	case neo4j.StatementTypeReadOnly:
		return "read_only"
	case neo4j.StatementTypeReadWrite:
		return "read_write"
	case neo4j.StatementTypeWriteOnly:
		return "write_only"
	case neo4j.StatementTypeSchemaWrite:
		return "schema_write"
	default:
		return "unknown"
	}
}
