package portalapi

import (
	"errors"
	"fmt"
)

// ErrDecode marks a response body that could not be parsed into the
// expected shape.
var ErrDecode = errors.New("portal api: unexpected response body")

// APIError is returned for any non-2xx response. Detail carries the
// backend's optional "detail" field verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("portal api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("portal api error status: %d", e.StatusCode)
}

type errorBody struct {
	Detail any `json:"detail"`
}

type assignRequest struct {
	Owner string `json:"owner"`
}
