package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a non-2xx response from an upstream REST service.
type APIError struct {
	Service    string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s API error (status %d)", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, e.Body)
}

// NewAPIError creates a new APIError.
func NewAPIError(service string, statusCode int, body string) *APIError {
	return &APIError{
		Service:    service,
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsClientRejection reports whether err is an APIError with a 4xx status.
// Used to decide whether a scoped request should be retried unscoped.
func IsClientRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
