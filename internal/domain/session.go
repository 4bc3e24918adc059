package domain

import "time"

// Session is the authenticated context a client works in. It is passed
// explicitly to every component that needs the current user or token.
type Session struct {
	User      User
	Token     string
	ExpiresAt time.Time
}

// UserID returns the id of the session user.
func (s Session) UserID() string { return s.User.ID }

// IsAdmin reports whether the session user holds the admin role.
func (s Session) IsAdmin() bool { return s.User.Role.IsAdmin() }

// Owns reports whether the session user raised req.
func (s Session) Owns(req Request) bool { return req.IsOwnedBy(s.User.ID) }

// IsExpired reports whether the token expired before now. A zero ExpiresAt
// never expires.
func (s Session) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}
