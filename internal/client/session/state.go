package session

import "github.com/tapmap-app/tapmap/internal/client/models"

// Status is the UI-visible authentication status.
type Status string

const (
	StatusInitializing    Status = "initializing"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// State is the snapshot handed to observers. User is always a copy; holding
// onto a snapshot never exposes later mutations.
type State struct {
	Status  Status
	Loading bool
	User    *models.User
	Err     string
}

// Authenticated reports whether the session is usable.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s State) clone() State {
	s.User = s.User.Clone()
	return s
}
