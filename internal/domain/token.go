package domain

import "time"

// Token is an opaque bearer credential bound to a single user.
// A token is valid while it is not revoked and has not passed ExpiresAt.
type Token struct {
	ID        string
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// Valid reports whether the token is usable at the given instant.
func (t *Token) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
