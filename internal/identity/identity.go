// Package identity gates every upstream fetch on a usable user identifier.
package identity

import "strings"

// ErrInvalidMessage is the user-facing message for a rejected identity.
const ErrInvalidMessage = "Invalid user id"

// Valid reports whether the opaque identity can be forwarded upstream.
// An identity is valid iff it is non-empty after trimming whitespace.
func Valid(id string) bool {
	return strings.TrimSpace(id) != ""
}

// Normalize returns the identity with surrounding whitespace removed.
func Normalize(id string) string {
	return strings.TrimSpace(id)
}
