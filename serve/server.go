package serve

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/couloir/workbench/agent"
	"github.com/couloir/workbench/envelope"
	"github.com/couloir/workbench/journal"
	"github.com/couloir/workbench/logging"
)

// RunRequest is the POST /v1/runs body.
type RunRequest struct {
	Task          string `json:"task"`
	Engine        string `json:"engine,omitempty"`
	Model         string `json:"model,omitempty"`
	SystemPrompt  string `json:"system_prompt,omitempty"`
	MaxIterations int    `json:"max_iterations,omitempty"`
}

// RunResult is the payload returned for a completed run.
type RunResult struct {
	FinalResponse string       `json:"final_response"`
	Iterations    int          `json:"iterations"`
	History       []agent.Turn `json:"history"`
}

// AgentFactory builds a fresh Runner for one request.
type AgentFactory func(req RunRequest) (agent.Runner, error)

// Server serves agent runs over HTTP and streams their events.
type Server struct {
	factory  AgentFactory
	hub      *Hub
	store    *journal.Store
	secret   []byte
	upgrader websocket.Upgrader
}

// NewServer creates a Server. secret enables JWT auth when non-empty; store
// may be nil to disable journaling.
func NewServer(factory AgentFactory, store *journal.Store, secret string) *Server {
	return &Server{
		factory: factory,
		hub:     NewHub(),
		store:   store,
		secret:  []byte(secret),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Event streaming is same-origin agnostic; auth is the gate.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/v1/runs", authMiddleware(s.secret, http.HandlerFunc(s.handleRun)))
	mux.Handle("/v1/runs/stream", authMiddleware(s.secret, http.HandlerFunc(s.handleStream)))
	return mux
}

// ListenAndServe blocks serving on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		s.hub.Close()
	}()
	logging.Named("serve").Info("listening", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeEnvelope(w, http.StatusOK, envelope.Ok(map[string]any{"subscribers": s.hub.Count()}, "Workbench server is healthy.", "serve"))
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	s.hub.Subscribe(conn)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeEnvelope(w, http.StatusMethodNotAllowed, envelope.Fail("Method not allowed.", "serve", "use POST"))
		return
	}
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope.Fail("Malformed request body.", "serve", err.Error()))
		return
	}
	if req.Task == "" {
		writeEnvelope(w, http.StatusBadRequest, envelope.Fail("Missing task.", "serve", "task is required"))
		return
	}

	runner, err := s.factory(req)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, envelope.Fail("Failed to initialise agent.", "serve", err.Error()))
		return
	}
	defer runner.Close()

	// Relay run events to stream subscribers while the run executes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range runner.Events() {
			s.hub.Broadcast(event)
		}
	}()

	state, err := runner.Run(r.Context(), []agent.Turn{agent.NewUserTurn(req.Task)})
	runner.Close()
	<-done

	if err != nil {
		writeEnvelope(w, http.StatusBadGateway, envelope.Fail("Agent run failed.", "serve", err.Error()))
		return
	}

	if journalErr := s.store.Record(r.Context(), journal.Entry{
		Kind:    "agent_run",
		Summary: state.FinalAnswer,
		Detail:  map[string]any{"task": req.Task, "iterations": state.Iterations},
	}); journalErr != nil {
		logging.Named("serve").Warn("journal write failed", "error", journalErr)
	}

	payload := RunResult{
		FinalResponse: state.FinalAnswer,
		Iterations:    state.Iterations,
		History:       state.History,
	}
	writeEnvelope(w, http.StatusOK, envelope.Ok(payload, "Agent run completed.", "serve"))
}

func writeEnvelope(w http.ResponseWriter, status int, resp envelope.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(resp.ToJSON()))
}
