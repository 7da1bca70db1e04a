package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// The client maps every failed call to exactly one of these error types so
// callers can distinguish "server said no" from "could not reach server"
// with errors.As.

// AuthError reports rejected credentials or an invalid/expired token.
// Session-level callers treat it as a signal to force a logout.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected (%d): %s", e.Status, e.Detail)
}

// ValidationError reports a 4xx response whose detail points at the request
// content. Fields carries field-level messages when the server supplied
// them; Conflict is set for duplicate-resource responses (e.g. an email
// that is already taken), which callers surface the same way as any other
// validation failure.
type ValidationError struct {
	Status   int
	Detail   string
	Fields   map[string]string
	Conflict bool
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("request rejected (%d): %s", e.Status, e.Detail)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("request rejected (%d): %s", e.Status, strings.Join(parts, "; "))
}

// ServerError reports a 5xx response.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Detail)
}

// NetworkError reports that no HTTP response was received at all.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "server unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// errorBody is the wire shape of every error response: {"detail": ...}
// where detail is either a plain string or a structured object/array with
// field-level messages.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// parseDetail extracts a human-readable message and optional field map from
// a raw detail value. Unknown shapes degrade to a generic message rather
// than failing.
func parseDetail(raw json.RawMessage, fallback string) (string, map[string]string) {
	if len(raw) == 0 {
		return fallback, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	// Validation-error list: [{"loc": [..., field], "msg": ...}, ...]
	var items []struct {
		Loc []json.RawMessage `json:"loc"`
		Msg string            `json:"msg"`
	}
	if err := json.Unmarshal(raw, &items); err == nil && len(items) > 0 {
		fields := make(map[string]string, len(items))
		for _, it := range items {
			field := "request"
			if n := len(it.Loc); n > 0 {
				var name string
				if json.Unmarshal(it.Loc[n-1], &name) == nil && name != "" {
					field = name
				}
			}
			fields[field] = it.Msg
		}
		return fallback, fields
	}

	// Flat object: {"field": "message", ...}
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err == nil && len(obj) > 0 {
		return fallback, obj
	}

	return fallback, nil
}
