package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Sentinel errors for service calls.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformedResponse indicates a 2xx response whose body does not
	// decode into the shape the endpoint promises.
	ErrMalformedResponse = goerr.New("malformed response")

	// ErrEmptyID indicates an item operation was attempted without an identifier.
	ErrEmptyID = goerr.New("item id is required")
)

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error: %s - %s", e.Status, e.Message())
}

// Message returns the server's error text. FastAPI-style {"detail": "..."}
// bodies are unwrapped; anything else is returned trimmed.
func (e *APIError) Message() string {
	body := strings.TrimSpace(e.Body)
	var detail struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal([]byte(body), &detail); err == nil {
		if s, ok := detail.Detail.(string); ok && s != "" {
			return s
		}
	}
	if body == "" {
		return e.Status
	}
	return body
}
