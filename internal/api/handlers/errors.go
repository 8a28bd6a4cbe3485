package handlers

import (
	"errors"
	"net/http"

	"github.com/TWRT/company-portal/internal/service"
)

func asValidation(err error) *service.ValidationError {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

// failureStatus is the response code for a page re-rendered after err.
func failureStatus(err error) int {
	if asValidation(err) != nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
