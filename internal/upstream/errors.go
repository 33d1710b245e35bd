package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized reports an authorization failure (expired, missing or
	// invalid token). Transport surfaces it; session policy lives with the
	// caller.
	ErrUnauthorized = errors.New("upstream: unauthorized")

	// ErrNotFound reports a missing resource.
	ErrNotFound = errors.New("upstream: not found")
)

// APIError is a non-2xx response from the condominium API with whatever
// field messages could be extracted from its JSON body.
type APIError struct {
	Status int
	Fields map[string]string
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream: http %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upstream: http %d", e.Status)
}

// Unwrap maps authorization and not-found statuses onto the sentinels so
// callers can use errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Field returns the extracted message for a named payload field, if any.
func (e *APIError) Field(name string) (string, bool) {
	if e == nil || e.Fields == nil {
		return "", false
	}
	value, ok := e.Fields[name]
	return value, ok
}

// newAPIError decodes a DRF-style error body. Bodies arrive either as
// {"detail": "..."} / {"error": "..."} or as {"field": ["msg", ...]}.
func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(body) == 0 {
		return apiErr
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		var asString string
		if err := json.Unmarshal(value, &asString); err == nil {
			fields[key] = asString
			continue
		}
		var asList []string
		if err := json.Unmarshal(value, &asList); err == nil && len(asList) > 0 {
			fields[key] = asList[0]
		}
	}
	if len(fields) > 0 {
		apiErr.Fields = fields
	}
	if detail, ok := fields["detail"]; ok {
		apiErr.Detail = detail
	} else if msg, ok := fields["error"]; ok {
		apiErr.Detail = msg
	}
	return apiErr
}
