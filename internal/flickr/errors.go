package flickr

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a response does not match the
// expected schema.
var ErrMalformedResponse = errors.New("flickr: malformed response")

// APIError is a "stat": "fail" answer from the REST API.
type APIError struct {
	Method  string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("flickr: %s failed with code %d: %s", e.Method, e.Code, e.Message)
}
