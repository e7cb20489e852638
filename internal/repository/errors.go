package repository

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches a RequestError for a 404 response.
var ErrNotFound = errors.New("job not found")

// RequestError is a failed exchange with the jobs backend: either a non-2xx
// response or a transport failure (StatusCode 0).
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Details    []string
	Err        error
}

func (e *RequestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Method, e.Path, e.Message)
	if len(e.Details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Details, "; "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Transport reports whether the request never got a response.
func (e *RequestError) Transport() bool {
	return e.StatusCode == 0
}

// errorBody is the backend's error envelope. details is a list of messages
// on validation failures.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func statusMessage(code int) string {
	return fmt.Sprintf("HTTP error! status: %d", code)
}
