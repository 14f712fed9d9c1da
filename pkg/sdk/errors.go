package sdk

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthorizationLost is matched by every *AuthorizationLostError.
	ErrAuthorizationLost = errors.New("authorization lost")

	// ErrUnmounted is returned by Guard.Mount when the caller's context ended
	// before remote validation finished. The validation result was discarded.
	ErrUnmounted = errors.New("view unmounted before session validation completed")

	// ErrNotAuthenticated is returned by calls that need a session when none is held.
	ErrNotAuthenticated = errors.New("not logged in")
)

// AuthReason classifies login failures.
type AuthReason string

const (
	AuthInvalidCredentials AuthReason = "invalid-credentials"
	AuthNetwork            AuthReason = "network"
	AuthMalformedResponse  AuthReason = "malformed-response"
	AuthRemote             AuthReason = "remote"
	AuthStorage            AuthReason = "storage"
)

// AuthError is returned by Login. The session is never modified when it is returned.
type AuthError struct {
	Reason  AuthReason
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("login failed (%s): %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("login failed (%s): %s", e.Reason, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Cause }

// AuthorizationLostError means an authenticated call came back 401 or 403.
// The session has already been terminated by the time the caller sees it.
type AuthorizationLostError struct {
	StatusCode int
	Message    string
}

func (e *AuthorizationLostError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authorization lost (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authorization lost (%d)", e.StatusCode)
}

func (e *AuthorizationLostError) Is(target error) bool {
	return target == ErrAuthorizationLost
}

// ValidationError is a client-side input failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NetworkError wraps a transport failure. It is recoverable; the session is untouched.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-auth 4xx/5xx from the backend. Message is the backend's
// own message when it sent one.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// IsAuthorizationFailure reports whether status is one that terminates the session.
func IsAuthorizationFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// UserMessage renders err as the single line a user should see.
func UserMessage(err error) string {
	var (
		authErr *AuthError
		lostErr *AuthorizationLostError
		valErr  *ValidationError
		netErr  *NetworkError
		remErr  *RemoteError
	)
	switch {
	case errors.As(err, &lostErr):
		return "Your session has expired. Please log in again."
	case errors.As(err, &authErr):
		switch authErr.Reason {
		case AuthInvalidCredentials:
			if authErr.Message != "" {
				return authErr.Message
			}
			return "Invalid email or password."
		case AuthNetwork:
			return "Could not reach the server. Check your connection and try again."
		case AuthMalformedResponse:
			return "The server sent an unexpected response."
		default:
			return authErr.Message
		}
	case errors.As(err, &valErr):
		return valErr.Error()
	case errors.As(err, &netErr):
		return "Could not reach the server. Check your connection and try again."
	case errors.As(err, &remErr):
		return remErr.Error()
	case errors.Is(err, ErrNotAuthenticated):
		return "You are not logged in."
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}
