package azdo

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestError describes a non-2xx response from the Azure DevOps API.
// It carries enough context (method, URL, status) for the dispatch layer
// to report a useful internal error without re-parsing the response.
type RequestError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if e.Body == "" {
		return fmt.Sprintf("azdo: %s %s returned %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("azdo: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Retryable reports whether the response status indicates a transient
// failure (HTTP 429 or any 5xx).
func (e *RequestError) Retryable() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// requestErrorFrom extracts a *RequestError from an error chain.
func requestErrorFrom(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
