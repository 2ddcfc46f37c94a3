package mu

import (
	"fmt"

	"github.com/goccy/go-json"
)

// APIError means the exchange succeeded but the panel answered ret != 1.
type APIError struct {
	Envelope Envelope
}

func (e *APIError) Error() string {
	raw, err := json.Marshal(e.Envelope)
	if err != nil {
		return fmt.Sprintf("mu api error: %v", map[string]any(e.Envelope))
	}

	return fmt.Sprintf("mu api error: %s", raw)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.Code, e.URL, e.Body)
}
