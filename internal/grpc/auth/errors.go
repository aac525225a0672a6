package auth

const (
	ErrTokenRequired = "bearer token is required"
	ErrInvalidToken  = "invalid bearer token"
)
