// Package common defines shared sentinel errors and small helpers used across
// the MJ36 core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrVersionConflict = errors.New("version conflict")

	// Auth errors.
	ErrInvalidGlobalCode = errors.New("invalid global code")
	ErrUnknownUser       = errors.New("unknown user")
	ErrWrongPassword     = errors.New("wrong password")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrPasswordTooShort  = errors.New("password must be at least 6 characters")
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidToken      = errors.New("invalid token")

	// Lock errors.
	ErrPinTooShort    = errors.New("pin must be at least 4 characters")
	ErrLockNotEnabled = errors.New("lock is not enabled")
	ErrWrongPin       = errors.New("wrong pin")

	// Settings errors.
	ErrUnknownFeature = errors.New("unknown feature")
)
