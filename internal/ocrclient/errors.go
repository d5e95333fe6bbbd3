package ocrclient

import (
	"errors"
	"fmt"
)

// ErrTimeout means the microservice did not answer within the configured timeout.
var ErrTimeout = errors.New("extraction service timed out")

// ErrDecode means a 2xx answer whose body is not a valid extraction response.
var ErrDecode = errors.New("invalid extraction service response")

// NetworkError wraps transport failures: refused connections, DNS, resets.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("extraction service unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UpstreamStatusError is a non-2xx answer.
type UpstreamStatusError struct {
	Code int
	Body string
}

func (e *UpstreamStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("extraction service returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("extraction service returned HTTP %d: %s", e.Code, e.Body)
}
