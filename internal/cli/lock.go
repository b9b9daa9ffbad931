package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mj36/internal/common"
)

// SetPin enables the app lock with a new PIN.
func (a *App) SetPin(ctx context.Context) error {
	pin, err := getSecret(a.reader, "New PIN (at least 4 characters)", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	if err := a.lock.EnableLock(ctx, string(pin)); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Lock enabled. Type 'lock' to lock MJ36.")
	return nil
}

func (a *App) RemovePin(ctx context.Context) error {
	if err := a.lock.DisableLock(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Lock disabled.")
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	locked, err := a.lock.LockApp(ctx)
	if err != nil {
		return err
	}
	if !locked {
		fmt.Fprintln(a.out, "Set a PIN first with 'setpin'.")
	}
	return nil
}

func (a *App) Unlock(ctx context.Context) error {
	pin, err := getSecret(a.reader, "PIN", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pin)

	return a.lock.UnlockApp(ctx, string(pin))
}
