package database

import "errors"

// Storage errors are values, never panics. Handlers map them onto the
// response envelope; the messages on the first two are shown to users as-is.
var (
	ErrDuplicateUser      = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNotFound           = errors.New("record not found")
)
