package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/couloir/workbench/agent"
)

// fakeRunner satisfies agent.Runner with a scripted outcome.
type fakeRunner struct {
	answer  string
	err     error
	emitter *agent.Emitter
}

func newFakeRunner(answer string, err error) *fakeRunner {
	return &fakeRunner{answer: answer, err: err, emitter: agent.NewEmitter("fake", 16)}
}

func (f *fakeRunner) Run(_ context.Context, initial []agent.Turn) (agent.State, error) {
	f.emitter.Emit(agent.EventRunStarted, map[string]any{"turns": len(initial)})
	if f.err != nil {
		f.emitter.Emit(agent.EventRunFailed, map[string]any{"error": f.err.Error()})
		return agent.State{}, f.err
	}
	f.emitter.Emit(agent.EventRunFinished, map[string]any{"final_answer": f.answer})
	st := agent.State{
		History:     append(initial, agent.NewAssistantTurn(f.answer)),
		Iterations:  1,
		FinalAnswer: f.answer,
	}
	return st, nil
}

func (f *fakeRunner) Events() <-chan agent.Event { return f.emitter.Events() }
func (f *fakeRunner) Close()                     { f.emitter.Close() }

func postRun(t *testing.T, server *httptest.Server, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, server.URL+"/v1/runs", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /v1/runs: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHandleRun(t *testing.T) {
	factory := func(req RunRequest) (agent.Runner, error) {
		if req.Task == "" {
			t.Error("factory called without task")
		}
		return newFakeRunner("All done.", nil), nil
	}
	server := httptest.NewServer(NewServer(factory, nil, "").Handler())
	t.Cleanup(server.Close)

	resp, decoded := postRun(t, server, "", RunRequest{Task: "summarize"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if decoded["status"] != "success" {
		t.Errorf("envelope status = %v", decoded["status"])
	}
	payload := decoded["payload"].(map[string]any)
	if payload["final_response"] != "All done." {
		t.Errorf("payload = %v", payload)
	}
}

func TestHandleRunValidation(t *testing.T) {
	server := httptest.NewServer(NewServer(func(RunRequest) (agent.Runner, error) {
		return newFakeRunner("x", nil), nil
	}, nil, "").Handler())
	t.Cleanup(server.Close)

	resp, decoded := postRun(t, server, "", RunRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if decoded["status"] != "error" {
		t.Errorf("envelope status = %v", decoded["status"])
	}

	getResp, err := http.Get(server.URL + "/v1/runs")
	if err != nil {
		t.Fatalf("GET /v1/runs: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", getResp.StatusCode)
	}
}

func TestHandleRunFactoryFailure(t *testing.T) {
	server := httptest.NewServer(NewServer(func(RunRequest) (agent.Runner, error) {
		return nil, fmt.Errorf(`unsupported agent engine "graph" (available: pipeline, react)`)
	}, nil, "").Handler())
	t.Cleanup(server.Close)

	resp, decoded := postRun(t, server, "", RunRequest{Task: "t", Engine: "graph"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
	errs := decoded["errors"].([]any)
	if !strings.Contains(errs[0].(string), "unsupported agent engine") {
		t.Errorf("errors = %v", errs)
	}
}

func TestStreamReceivesRunEvents(t *testing.T) {
	server := httptest.NewServer(NewServer(func(RunRequest) (agent.Runner, error) {
		return newFakeRunner("streamed", nil), nil
	}, nil, "").Handler())
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/runs/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	postRun(t, server, "", RunRequest{Task: "go"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var kinds []string
	for len(kinds) < 2 {
		var event agent.Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("read event: %v (got %v)", err, kinds)
		}
		kinds = append(kinds, string(event.Kind))
	}
	if kinds[0] != string(agent.EventRunStarted) || kinds[1] != string(agent.EventRunFinished) {
		t.Errorf("kinds = %v", kinds)
	}
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "stream-secret"
	server := httptest.NewServer(NewServer(func(RunRequest) (agent.Runner, error) {
		return newFakeRunner("ok", nil), nil
	}, nil, secret).Handler())
	t.Cleanup(server.Close)

	// No token.
	resp, _ := postRun(t, server, "", RunRequest{Task: "t"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d", resp.StatusCode)
	}

	// Wrong secret.
	badToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "cli"}).
		SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	resp, _ = postRun(t, server, badToken, RunRequest{Task: "t"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d", resp.StatusCode)
	}

	// Valid token.
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "cli",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	resp, decoded := postRun(t, server, token, RunRequest{Task: "t"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with valid token = %d (%v)", resp.StatusCode, decoded)
	}

	// Health stays open.
	health, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	health.Body.Close()
	if health.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", health.StatusCode)
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub()
	t.Cleanup(hub.Close)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Subscribe(conn)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Count() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.Count() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
