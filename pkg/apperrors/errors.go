package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrIncomplete    = errors.New("incomplete connection data")
)

// APIError is returned when JumpServer answers with a non-2xx status.
// Body holds the raw response text (compact JSON when the response was JSON).
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("JumpServer API %d: %s", e.StatusCode, e.Body)
}

// Code maps an error to the stable code reported in tool error results.
// Returns empty string for errors outside the taxonomy (transport failures etc).
func Code(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "invalid_parameters"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	case errors.Is(err, ErrNotFound):
		return "asset_not_found"
	case errors.Is(err, ErrIncomplete):
		return "incomplete_connection_data"
	case errors.As(err, &apiErr):
		return "jumpserver_api_error"
	}
	return ""
}
