package dashboard

import (
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/session"
)

// ErrUnauthenticated means the session is missing or was rejected. The caller logs out and sends the user to log in.
var ErrUnauthenticated = errors.NewSentinel("unauthenticated")

// ValidationError is a problem caught before any collaborator call. Nothing has been changed when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

func isAuthError(err error) bool {
	return errors.Is(err, apiclient.ErrUnauthorized) || errors.Is(err, session.ErrNoSession)
}

// unauthenticated keeps err in the chain for logging while matching ErrUnauthenticated.
func unauthenticated(err error) error {
	return errors.Join(ErrUnauthenticated, err)
}
