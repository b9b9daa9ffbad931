package models

import (
	"encoding/json"
	"time"
)

// DefaultAvatar is assigned to users registered without an avatar.
const DefaultAvatar = "assets/images/avatar-male.png"

// UnknownUsername is shown for references to users that no longer exist.
const UnknownUsername = "unknown user"

type User struct {
	ID           ID        `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Avatar       string    `json:"avatar"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActive   time.Time `json:"lastActive"`
}

// UnmarshalJSON also accepts the web app's "password" field name.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		Password string `json:"password"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.PasswordHash == "" {
		u.PasswordHash = aux.Password
	}
	return nil
}

// UnknownUser is the placeholder rendered for a dangling user reference.
func UnknownUser(id ID) User {
	return User{ID: id, Username: UnknownUsername, Avatar: DefaultAvatar}
}
