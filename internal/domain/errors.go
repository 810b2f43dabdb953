package domain

import "errors"

// userError pairs a sentinel with a message safe to show to API clients.
// Provider errors keep their full wrapped chain for logs; this type carries
// the few messages that cross the HTTP boundary verbatim.
type userError struct {
	sentinel error
	msg      string
}

// NewUserError wraps sentinel with a client-facing message.
func NewUserError(sentinel error, msg string) error {
	return &userError{sentinel: sentinel, msg: msg}
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.sentinel }

// UserMessage returns the client-facing message carried by err, if any.
func UserMessage(err error) (string, bool) {
	var ue *userError
	if errors.As(err, &ue) {
		return ue.msg, true
	}
	return "", false
}
