// Package lock implements the PIN lock that hides the app until the PIN is
// entered again.
//
// The PIN hash and the enabled flag live in the document settings; whether
// the app is currently locked is kept in the separate "lock_state" record so
// a restart comes back locked.
package lock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/cryptox"
	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/dmitrijs2005/mj36/internal/store"
)

// MinPinLength is the shortest PIN EnableLock accepts.
const MinPinLength = 4

// Surface shows and hides the lock screen.
type Surface interface {
	ShowLockOverlay()
	HideLockOverlay()
}

type Controller struct {
	store   *store.Store
	repo    records.Repository
	surface Surface
	logger  logging.Logger
	now     func() time.Time

	mu     sync.RWMutex
	locked bool
}

type Option func(*Controller)

func WithSurface(s Surface) Option {
	return func(c *Controller) { c.surface = s }
}

func NewController(st *store.Store, repo records.Repository, logger logging.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.Nop()
	}

	c := &Controller{
		store:  st,
		repo:   repo,
		logger: logger.With("component", "lock"),
		now:    st.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnableLock stores a hash of pin and turns the lock on. The app is not
// locked by this call.
func (c *Controller) EnableLock(ctx context.Context, pin string) error {
	if len(pin) < MinPinLength {
		return common.ErrPinTooShort
	}

	_, err := c.store.UpdateSettings(ctx, models.SettingsPatch{
		LockEnabled: models.Ptr(true),
		LockPinHash: models.Ptr(cryptox.HashSecret(pin)),
	})
	if err != nil {
		return err
	}

	c.logger.Info(ctx, "lock enabled")
	return nil
}

// DisableLock turns the lock off, forgets the PIN and unlocks the app.
func (c *Controller) DisableLock(ctx context.Context) error {
	_, err := c.store.UpdateSettings(ctx, models.SettingsPatch{
		LockEnabled: models.Ptr(false),
		LockPinHash: models.Ptr(""),
	})
	if err != nil {
		return err
	}

	if err := c.ClearLockState(ctx); err != nil {
		return err
	}
	c.hide()

	c.logger.Info(ctx, "lock disabled")
	return nil
}

// LockApp locks the app if the lock is enabled. It reports whether the app
// was locked.
func (c *Controller) LockApp(ctx context.Context) (bool, error) {
	settings, err := c.store.Settings(ctx)
	if err != nil {
		return false, err
	}
	if !settings.LockEnabled {
		return false, nil
	}

	b, err := json.Marshal(models.LockMarker{IsLocked: true, Timestamp: c.now()})
	if err != nil {
		return false, fmt.Errorf("failed to encode lock state: %w", err)
	}
	if err := c.repo.Set(ctx, records.KeyLockState, b); err != nil {
		return false, fmt.Errorf("failed to save lock state: %w", err)
	}

	c.setLocked(true)
	c.show()

	c.logger.Info(ctx, "app locked")
	return true, nil
}

// UnlockApp unlocks the app when pin matches. A wrong PIN leaves the app
// locked.
func (c *Controller) UnlockApp(ctx context.Context, pin string) error {
	settings, err := c.store.Settings(ctx)
	if err != nil {
		return err
	}
	if !settings.LockEnabled || settings.LockPinHash == "" {
		return common.ErrLockNotEnabled
	}

	ok, needsRehash := cryptox.VerifySecret(pin, settings.LockPinHash)
	if !ok {
		c.logger.Warn(ctx, "wrong PIN entered")
		return common.ErrWrongPin
	}

	if needsRehash {
		_, err := c.store.UpdateSettings(ctx, models.SettingsPatch{LockPinHash: models.Ptr(cryptox.HashSecret(pin))})
		if err != nil {
			c.logger.Warn(ctx, "failed to migrate legacy PIN hash", "error", err)
		} else {
			c.logger.Info(ctx, "migrated legacy PIN hash")
		}
	}

	if err := c.ClearLockState(ctx); err != nil {
		return err
	}
	c.hide()

	c.logger.Info(ctx, "app unlocked")
	return nil
}

// ClearLockState deletes the lock record and marks the app unlocked.
func (c *Controller) ClearLockState(ctx context.Context) error {
	if err := c.repo.Delete(ctx, records.KeyLockState); err != nil {
		return fmt.Errorf("failed to clear lock state: %w", err)
	}
	c.setLocked(false)
	return nil
}

// Restore sets the lock state from storage at start. The app comes back
// locked when the record says so and the lock is enabled. A record that
// cannot be read locks the app whenever the lock is enabled.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	settings, err := c.store.Settings(ctx)
	if err != nil {
		// Without settings nobody can tell whether a PIN is required.
		c.setLocked(true)
		c.show()
		return true, err
	}

	locked, err := c.restoreMarker(ctx, settings.LockEnabled)
	c.setLocked(locked)
	if locked {
		c.show()
	}
	return locked, err
}

func (c *Controller) restoreMarker(ctx context.Context, enabled bool) (bool, error) {
	b, err := c.repo.Get(ctx, records.KeyLockState)
	if err != nil {
		return enabled, err
	}
	if b == nil {
		return false, nil
	}

	var marker models.LockMarker
	if err := json.Unmarshal(b, &marker); err != nil {
		if enabled {
			c.logger.Warn(ctx, "lock state unreadable, staying locked", "error", err)
			return true, nil
		}
		c.logger.Warn(ctx, "lock state unreadable and lock disabled, ignoring", "error", err)
		return false, nil
	}

	return marker.IsLocked && enabled, nil
}

func (c *Controller) IsAppLocked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

func (c *Controller) setLocked(v bool) {
	c.mu.Lock()
	c.locked = v
	c.mu.Unlock()
}

func (c *Controller) show() {
	if c.surface != nil {
		c.surface.ShowLockOverlay()
	}
}

func (c *Controller) hide() {
	if c.surface != nil {
		c.surface.HideLockOverlay()
	}
}
