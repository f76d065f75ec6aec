package repository

import "errors"

// Sentinel errors let callers distinguish expected store outcomes
// from infrastructure failures without inspecting driver errors.
var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
