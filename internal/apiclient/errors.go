package apiclient

import (
	"fmt"
	"github.com/myrjola/reelcheck/internal/errors"
	"net/http"
)

var (
	// ErrUnauthorized matches collaborator rejections of a missing, invalid or expired token.
	ErrUnauthorized = errors.NewSentinel("unauthorized")
	// ErrNetwork matches failures to reach a collaborator.
	ErrNetwork = errors.NewSentinel("network error")
)

// RemoteError is a non-2xx collaborator response.
type RemoteError struct {
	StatusCode int
	// Message is the collaborator's own error message.
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Is makes 401 and 403 responses match ErrUnauthorized.
func (e *RemoteError) Is(target error) bool {
	return target == ErrUnauthorized && //nolint:errorlint // sentinel comparison
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// NetworkError is a failed round trip to a collaborator.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s", e.Err.Error())
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork //nolint:errorlint // sentinel comparison
}

// Message returns the text to show next to the control that triggered err. Collaborator messages are returned
// verbatim.
func Message(err error) string {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return networkErr.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
