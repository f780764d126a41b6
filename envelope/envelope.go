// Package envelope defines the response wrapper emitted by every workbench
// command and server endpoint.
package envelope

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status values carried by a Response.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metadata identifies a single response instance.
type Metadata struct {
	RequestID   string    `json:"request_id"`
	Source      string    `json:"source,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Response is the uniform envelope for command results.
type Response struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Payload  any      `json:"payload,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// Ok builds a success response.
func Ok(payload any, message, source string) Response {
	return Response{
		Status:   StatusSuccess,
		Message:  message,
		Payload:  payload,
		Metadata: newMetadata(source),
	}
}

// Fail builds an error response.
func Fail(message, source string, errs ...string) Response {
	return Response{
		Status:   StatusError,
		Message:  message,
		Errors:   errs,
		Metadata: newMetadata(source),
	}
}

func newMetadata(source string) Metadata {
	return Metadata{
		RequestID:   uuid.New().String(),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
	}
}

// ToJSON renders the response as indented JSON. Marshalling failures are
// reported inside a minimal error envelope so callers always get valid JSON.
func (r Response) ToJSON() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fallback := Fail("failed to encode response", r.Metadata.Source, err.Error())
		data, _ = json.MarshalIndent(fallback, "", "  ")
	}
	return string(data)
}
