package platform

import (
	"errors"
	"fmt"
)

// ErrUnauthorized indicates the platform rejected the supplied credentials
// (server API key or user access token).
var ErrUnauthorized = errors.New("platform rejected credentials")

// APIError carries a non-2xx platform response. Its message is what callers
// pass through to clients verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("pi platform returned status %d", e.StatusCode)
}

// Unwrap maps authentication failures onto ErrUnauthorized so callers can
// branch with errors.Is.
func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return ErrUnauthorized
	}
	return nil
}
