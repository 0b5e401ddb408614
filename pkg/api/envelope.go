package api

import (
	"encoding/json"
	"errors"

	"github.com/palanikalyan/K-MATO/internal/kmerr"
)

// Envelope is the backend's optional response wrapper.
type Envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// normalize resolves the backend's two response shapes to a single payload.
// If body is an envelope, its data is returned (or the raw body when data is
// absent); a success=false envelope becomes an error carrying the backend's
// message. Anything that isn't an envelope passes through untouched.
func normalize(body []byte) ([]byte, error) {
	if len(body) == 0 {
		return body, nil
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil || env.Success == nil {
		// Bare payload (or not an object at all).
		return body, nil
	}

	if !*env.Success {
		e := kmerr.New("KM4002")
		if env.Message != "" {
			e = e.Wrap(errors.New(env.Message))
		}
		return nil, e
	}

	if len(env.Data) > 0 {
		return env.Data, nil
	}
	return body, nil
}
