package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the backend, carrying the HTTP
// status and whatever message the server put in the body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.Status)
	}
	return fmt.Sprintf("api: server returned %d: %s", e.Status, e.Message)
}

// IsAuth reports whether the failure was an authentication or
// authorization rejection rather than a server-side fault.
func (e *Error) IsAuth() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsAuthError reports whether err is a 401/403 from the backend.
func IsAuthError(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.IsAuth()
}
