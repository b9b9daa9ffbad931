package models

import "time"

// SessionUser is the credential-free user snapshot embedded in a Session.
type SessionUser struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Session is a snapshot of a User taken at login time. It is not kept in
// sync with later changes to the User.
type Session struct {
	User      SessionUser `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSession snapshots u at now.
func NewSession(u User, now time.Time) Session {
	return Session{
		User: SessionUser{
			ID:       u.ID,
			Username: u.Username,
			Avatar:   u.Avatar,
			IsAdmin:  u.IsAdmin,
		},
		Timestamp: now,
	}
}

// LockMarker records that the app was locked. It is stored apart from the
// Settings so that a restart comes back locked.
type LockMarker struct {
	IsLocked  bool      `json:"isLocked"`
	Timestamp time.Time `json:"timestamp"`
}
