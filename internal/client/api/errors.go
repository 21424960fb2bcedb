package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes callers must tell apart.
// A transport failure (ErrUnavailable, ErrTimeout) is not the same thing as
// a rejected credential (ErrUnauthorized); the session layer depends on the
// distinction to avoid destroying a valid session on a flaky network.
var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrTimeout      = errors.New("request timed out")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a non-2xx HTTP response carrying the server-reported message
// (or the HTTP status text when the body had none).
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsTransient reports whether err is a transport-level failure that says
// nothing about the validity of the stored credentials.
func IsTransient(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}

// UserMessage converts any client error into a displayable string.
func UserMessage(err error) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "The request timed out. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "Cannot reach the server. Check your connection and try again."
	case errors.Is(err, ErrUnauthorized):
		return "Your session has expired. Please sign in again."
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.Status)
	default:
		return "Something went wrong. Please try again."
	}
}
