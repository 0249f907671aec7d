package services

import (
	"fmt"
)

// HTTPError is returned for any failed API call. StatusCode is 0 when the
// request never produced a response; Err then holds the transport cause.
// Body is the decoded JSON error payload, or the raw text when the payload
// is not JSON.
type HTTPError struct {
	StatusCode int
	Body       any
	Err        error
}

func (e *HTTPError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("api returned status %d: %v", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error { return e.Err }

// Transport reports whether the failure happened before a response arrived.
func (e *HTTPError) Transport() bool { return e.StatusCode == 0 }
