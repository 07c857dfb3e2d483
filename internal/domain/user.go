package domain

import "time"

// User represents a system user
type User struct {
	ID       int64
	Email    string // Unique email address
	Password string // Bcrypt hashed password (never returned in API payloads)
	IsAdmin  bool   // Service-admin tier
}

// EntityID returns the user's collection key
func (u *User) EntityID() int64 { return u.ID }

// SetEntityID assigns the user's collection key
func (u *User) SetEntityID(id int64) { u.ID = id }

// Session represents a login session resolved from an opaque bearer token
type Session struct {
	ID        string // Opaque, unguessable identifier (UUID)
	UserID    int64
	ExpiresAt time.Time
}

// EntityID returns the session's collection key
func (s *Session) EntityID() string { return s.ID }

// SetEntityID assigns the session's collection key
func (s *Session) SetEntityID(id string) { s.ID = id }

// Expired reports whether the session's expiry has elapsed at the given time.
// An expired session is semantically absent even if the record still exists.
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
