package session

import "errors"

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
	ErrInvalidCandidate   = errors.New("invalid sign-up data")
	ErrInvalidPhoto       = errors.New("invalid profile photo")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts")
)
