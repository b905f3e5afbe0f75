package domain

import "errors"

// Sentinel errors returned by repositories. Services translate them into
// Problems at the point of detection.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrSlotOverlap  = errors.New("table slot already booked")
	ErrLockTimeout  = errors.New("could not acquire slot lock")
	ErrStaleWrite   = errors.New("record changed since it was read")
	ErrInvalidToken = errors.New("invalid token")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
