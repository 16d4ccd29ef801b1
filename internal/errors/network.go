package errors

import (
	"errors"
	"fmt"
)

// NetworkError represents a failed retrieval: connection error, timeout,
// or a non-success HTTP status. The fetcher resolves retries internally;
// by the time a NetworkError escapes it, all attempts are exhausted.
type NetworkError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError creates a NetworkError for a transport-level failure.
func NewNetworkError(url string, err error) *NetworkError {
	return &NetworkError{URL: url, Err: err}
}

// NewNetworkStatusError creates a NetworkError for a non-success HTTP status.
func NewNetworkStatusError(url string, statusCode int) *NetworkError {
	return &NetworkError{URL: url, StatusCode: statusCode}
}

// IsNetworkError reports whether err is a NetworkError (even when wrapped).
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
