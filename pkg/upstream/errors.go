package upstream

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by New when no credential is available.
// It is a configuration error: the process must not start serving without it.
var ErrMissingAPIKey = errors.New("twelvedata api key missing")

// HTTPError is a transport-level failure: the upstream answered with a
// non-2xx status. No retry is attempted.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status %d", e.StatusCode)
}

// APIError is an application-level failure: a 2xx response whose body
// carries the upstream error marker ("status": "error") with a numeric
// code and message.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twelvedata error %d: %s", e.Code, e.Message)
}
