package cancha

import (
	"errors"
)

var (
	// ErrClientNotInitialized is returned when the backend client is not initialized.
	ErrClientNotInitialized = errors.New("cancha backend client not initialized")

	// ErrEmptyBaseURL is returned when a client is created without a base URL.
	ErrEmptyBaseURL = errors.New("cancha backend base url can not be empty")

	// ErrLoginWithoutToken is returned when a successful login response carries no token.
	ErrLoginWithoutToken = errors.New("login response did not contain a token")
)

// APIError is an application-level failure reported by the backend
// (exito=false in the response envelope). The Mensaje is suitable for
// direct display to the user.
type APIError struct {
	Mensaje    string
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Mensaje != "" {
		return e.Mensaje
	}

	return "la operación falló en el servidor"
}

// Message extracts a human-readable message from a backend call error.
// Backend failure messages pass through untouched; transport errors
// collapse into the given fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}

	return fallback
}
