// Package models defines client-side data models for the wikisync CLI.
package models

import "time"

// Session is an authenticated wiki identity plus its transport credential.
// Sessions are owned by the session service: immutable once created, replaced
// wholesale on re-login. Identity is AccountID; at most one live session per
// account.
type Session struct {
	// AccountID is the wiki username the session was created for.
	AccountID string `json:"accountId"`

	// Cookies holds the raw Set-Cookie values captured from the login
	// response, in server order. They are presented verbatim (joined with
	// ";") on authenticated requests and never re-parsed; a valid session
	// always has at least one.
	Cookies []string `json:"cookies"`

	// CreatedAt is the login time in UTC.
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers can hold a session without observing
// later store mutations.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Cookies = append([]string(nil), s.Cookies...)
	return &out
}
