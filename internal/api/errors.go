package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 response. The application treats
// it globally: purge the session and return to the login screen.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidRole is returned when the backend hands back a principal whose
// role is not a recognized staff role. No session is established.
var ErrInvalidRole = errors.New("not a staff role")

// StatusError is any non-2xx response other than 401. Message carries the
// backend-provided text when present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.Status)
}

// IsUnauthorized reports whether err represents a rejected credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// UserMessage extracts the text to surface to the operator for a failed
// request: the backend message when present, a generic fallback otherwise.
func UserMessage(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return fallback
}
