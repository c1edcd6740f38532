package model

import "errors"

// Common errors used across the application
var (
	// Username errors
	ErrInvalidUsername = errors.New("invalid username: use a-z, 0-9, '.', '_', '-' (3-32 chars)")

	// Credential errors
	ErrCredentialNotFound = errors.New("credential not found")
	ErrCredentialExists   = errors.New("credential already exists")
)
