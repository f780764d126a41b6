package agent

import (
	"sync"
	"time"
)

// EventKind identifies the type of run event.
type EventKind string

const (
	EventRunStarted   EventKind = "run_started"
	EventPlanDecided  EventKind = "plan_decided"
	EventToolStarted  EventKind = "tool_started"
	EventToolFinished EventKind = "tool_finished"
	EventRunFinished  EventKind = "run_finished"
	EventRunFailed    EventKind = "run_failed"
)

// Event is a typed lifecycle event emitted by an agent run.
type Event struct {
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
	AgentID   string         `json:"agent_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// Emitter delivers events to the host application via a bounded channel.
type Emitter struct {
	agentID string
	ch      chan Event
	closed  bool
	mu      sync.Mutex
}

// NewEmitter creates an Emitter with a buffered channel.
func NewEmitter(agentID string, bufferSize int) *Emitter {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Emitter{
		agentID: agentID,
		ch:      make(chan Event, bufferSize),
	}
}

// Emit sends an event. A full channel drops the event rather than blocking
// the loop; a closed emitter drops silently.
func (e *Emitter) Emit(kind EventKind, data map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	event := Event{
		Kind:      kind,
		Timestamp: time.Now(),
		AgentID:   e.agentID,
		Data:      data,
	}
	select {
	case e.ch <- event:
	default:
	}
}

// Events returns the read-only event channel.
func (e *Emitter) Events() <-chan Event {
	return e.ch
}

// Close closes the event channel. Safe to call multiple times.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.closed {
		e.closed = true
		close(e.ch)
	}
}
