package services

import (
	"errors"
	"net/http"

	"github.com/tapmap-app/tapmap/internal/client/api"
)

// envelopeError converts a 2xx envelope with Success=false into a
// displayable error. Some endpoints report domain failures this way
// instead of via HTTP status codes.
func envelopeError(env *api.Envelope) error {
	msg := env.Message
	if msg == "" {
		msg = "request rejected"
	}
	return &api.Error{Status: http.StatusOK, Message: msg}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}
