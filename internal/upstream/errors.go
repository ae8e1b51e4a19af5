package upstream

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable classification of an upstream failure. Handlers branch on
// kinds instead of matching message prose themselves.
type Kind string

const (
	KindUnauthorized     Kind = "unauthorized"
	KindUsernameTaken    Kind = "username_taken"
	KindEmailRegistered  Kind = "email_registered"
	KindPasswordMismatch Kind = "password_mismatch"
	KindInvalidEmail     Kind = "invalid_email"
	KindInvalidUsername  Kind = "invalid_username"
	KindUserExists       Kind = "user_exists"
	KindUnavailable      Kind = "unavailable"
	KindUnknown          Kind = "unknown"
)

// ErrUnauthorized is matched via errors.Is for any 401 from the remote API.
var ErrUnauthorized = errors.New("upstream: unauthorized")

// APIError carries the classified failure from a remote API call.
type APIError struct {
	Status       int
	Kind         Kind
	Field        string // form field the error refers to, "" if none
	Message      string
	TokenExpired bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == 401
}

// AsAPIError unwraps err into an *APIError if it is one.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// classify maps a status code and error prose from the remote API onto a
// stable kind and the form field it concerns. The remote API reports
// registration conflicts only as message text, so substring matching happens
// here, in one place.
func classify(status int, message string) (Kind, string) {
	if status == 401 {
		return KindUnauthorized, ""
	}
	m := strings.ToLower(message)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(m, s) {
				return true
			}
		}
		return false
	}
	switch {
	case has("username") && has("already", "exists", "taken"):
		return KindUsernameTaken, "username"
	case has("email") && has("already", "registered", "exists"):
		return KindEmailRegistered, "email"
	case has("password") && has("match"):
		return KindPasswordMismatch, "confirmPassword"
	case has("invalid") && has("email"):
		return KindInvalidEmail, "email"
	case has("invalid") && has("username"):
		return KindInvalidUsername, "username"
	case has("user") && has("already") || status == 409:
		return KindUserExists, "username"
	}
	return KindUnknown, ""
}
