package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/session"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getSecret     = GetSecret
)

// Register prompts for the global code, a username, a password and an
// optional avatar and creates the account.
//
// Secret byte slices are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	code, err := getSecret(a.reader, "Global code", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(code)

	username, err := getSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}

	password, err := getSecret(a.reader, "Choose a password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	avatar, err := getSimpleText(a.reader, "Avatar image (empty for default)", a.out)
	if err != nil {
		return err
	}

	sess, err := a.session.Register(ctx, string(code), username, string(password), avatar)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.User.Username)
	return nil
}

// Login prompts for the global code and credentials and starts a session.
func (a *App) Login(ctx context.Context) error {
	code, err := getSecret(a.reader, "Global code", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(code)

	username, err := getSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}

	password, err := getSecret(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.session.Login(ctx, string(code), username, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Welcome back, %s!\n", sess.User.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// Profile shows the session user and offers to change name and avatar.
func (a *App) Profile(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		return common.ErrNotLoggedIn
	}
	fmt.Fprintf(a.out, "Username: %s\nAvatar:   %s\n", u.Username, u.Avatar)

	username, err := getSimpleText(a.reader, "New username (empty to keep)", a.out)
	if err != nil {
		return err
	}
	avatar, err := getSimpleText(a.reader, "New avatar (empty to keep)", a.out)
	if err != nil {
		return err
	}
	if username == "" && avatar == "" {
		return nil
	}

	updated, err := a.session.UpdateProfile(ctx, session.ProfileUpdate{Username: username, Avatar: avatar})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Profile saved: %s\n", updated.Username)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getSecret(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)

	next, err := getSecret(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.session.ChangePassword(ctx, string(current), string(next)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Password changed.")
	return nil
}
