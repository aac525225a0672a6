package guests

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrGuestNotFound = errors.New("guest not found")
	ErrGuestAdmitted = errors.New("guest already checked in")
	ErrInvalidGuest  = errors.New("invalid guest")
	ErrInvalidRoster = errors.New("invalid guest list")
)
