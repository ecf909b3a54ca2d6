// FILE: internal/entity/session_entity.go
package entity

import "time"

// Session is one logged-in instance of an account. The token is an opaque
// random string; ExpiresAt is absolute and never slides, LastActivity does.
type Session struct {
	Token        string
	Username     string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	LastActivity time.Time
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
