package api

import (
	"errors"
	"fmt"

	"github.com/roach88/checkin/internal/domain"
)

// ErrMalformedResponse is returned when a successful response body is not JSON.
var ErrMalformedResponse = errors.New("malformed response from backend")

// ValidationError is a structured rejection: the backend named the fields
// it refused. Fields is keyed by backend names.
type ValidationError struct {
	Status  int
	Message string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d): %s (%d field errors)", e.Status, e.Message, len(e.Fields))
}

// FieldErrors returns the field messages keyed by canonical client names.
func (e *ValidationError) FieldErrors() domain.FieldErrors {
	return domain.Canonicalize(e.Fields)
}

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// AsValidationError extracts a *ValidationError with at least one field.
// Uses errors.As to handle wrapped errors.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		return ve, true
	}
	return nil, false
}

// IsServerError reports whether err is a 5xx response.
func IsServerError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 500
}
