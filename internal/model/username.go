package model

import (
	"regexp"
	"strings"
)

// Username length bounds, inclusive
const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

// Canonicalize trims and lowercases a raw username and checks it against the
// allowed alphabet and length. Applying it to its own output is a no-op.
func Canonicalize(raw string) (CanonicalUsername, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if !usernamePattern.MatchString(s) {
		return "", ErrInvalidUsername
	}
	return CanonicalUsername(s), nil
}
