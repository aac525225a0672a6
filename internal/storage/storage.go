package storage

import "errors"

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrGuestExists       = errors.New("guest already exists")
	ErrGuestNotFound     = errors.New("guest not found")
	ErrAdmissionExists   = errors.New("admission already exists")
	ErrAdmissionNotFound = errors.New("admission not found")
	ErrGuestAdmitted     = errors.New("guest has an admission")
	ErrCacheMiss         = errors.New("cache miss")
)
