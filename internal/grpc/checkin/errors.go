package checkin

const (
	ErrTokenRequired   = "token is required"
	ErrTokenTooLong    = "token is too long"
	ErrUnauthenticated = "operator is not authenticated"
	ErrUnavailable     = "check-in unavailable, retry the scan"
	ErrInternal        = "internal error"
)
