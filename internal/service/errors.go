package service

import (
	"errors"

	"github.com/TWRT/company-portal/internal/client/portalapi"
)

// ErrAlreadyAssigned is returned when a client already belongs to the
// requesting owner; no request is sent in that case.
var ErrAlreadyAssigned = errors.New("client already assigned to you")

// ValidationError is a local input failure detected before any backend
// request is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UserMessage picks the text shown to the user for err: a local validation
// message, the backend's detail string, or fallback.
func UserMessage(err error, fallback string) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var apiErr *portalapi.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
