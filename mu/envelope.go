package mu

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Envelope is the decoded {"ret": ..., "data": ...} wrapper of every panel response.
type Envelope map[string]any

// OK reports ret == 1.
func (e Envelope) OK() bool {
	ret, ok := e["ret"].(float64)
	return ok && ret == 1
}

type response struct {
	envelope Envelope
	// raw data field, nil when absent
	data json.RawMessage
}

func decodeResponse(body []byte) (*response, error) {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode panel response: %v", err)
	}
	if envelope == nil {
		return nil, fmt.Errorf("panel response is not a json object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode panel response: %v", err)
	}

	res := &response{envelope: envelope}
	if data, ok := fields["data"]; ok && string(data) != "null" {
		res.data = data
	}

	return res, nil
}

// dataOrEmpty returns the data field, or an empty list when it is absent.
func (r *response) dataOrEmpty() any {
	if v, ok := r.envelope["data"]; ok {
		return v
	}

	return []any{}
}
