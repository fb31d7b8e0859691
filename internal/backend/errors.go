package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAuthExpired is returned for any 401 response. Callers tear down the session.
	ErrAuthExpired = errors.New("authentication expired")
	ErrCircuitOpen = errors.New("backend temporarily unavailable")
	ErrNoToken     = errors.New("no access token in context")
)

// RejectionError is a 4xx answer from the backend. Detail is the backend's
// own message and is shown to the user verbatim.
type RejectionError struct {
	Status int
	Detail string
	Fields map[string]string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("backend rejected request (%d): %s", e.Status, e.Detail)
}

// FaultError covers 5xx answers, timeouts and unreachable backends.
type FaultError struct {
	Status int
	Err    error
}

func (e *FaultError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend fault (%d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func IsFault(err error) bool {
	var fault *FaultError
	return errors.As(err, &fault) || errors.Is(err, ErrCircuitOpen)
}

func IsNotFound(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej) && rej.Status == 404
}

// parseRejection extracts a human message from the shapes the backend uses:
// {"detail": "..."}, {"error": "..."}, {"field": ["msg", ...]} or ["msg"].
func parseRejection(status int, body []byte) *RejectionError {
	rej := &RejectionError{Status: status}

	var list []string
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 {
		rej.Detail = strings.Join(list, "; ")
		return rej
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		rej.Detail = strings.TrimSpace(string(body))
		if rej.Detail == "" {
			rej.Detail = fmt.Sprintf("request failed with status %d", status)
		}
		return rej
	}

	for _, key := range []string{"detail", "error", "message"} {
		if raw, ok := obj[key]; ok {
			rej.Detail = flatten(raw)
			delete(obj, key)
			break
		}
	}

	if len(obj) > 0 {
		rej.Fields = make(map[string]string, len(obj))
		keys := make([]string, 0, len(obj))
		for key, raw := range obj {
			rej.Fields[key] = flatten(raw)
			keys = append(keys, key)
		}
		if rej.Detail == "" {
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, key := range keys {
				parts = append(parts, key+": "+rej.Fields[key])
			}
			rej.Detail = strings.Join(parts, "; ")
		}
	}
	if rej.Detail == "" {
		rej.Detail = fmt.Sprintf("request failed with status %d", status)
	}
	return rej
}

func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return strings.TrimSpace(string(raw))
}
