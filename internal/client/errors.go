package client

import (
	"errors"
	"fmt"
)

// ErrTransport wraps failures that never produced an HTTP response.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}
