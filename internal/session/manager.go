// Package session authenticates MJ36 users and keeps the current session.
//
// The session is a snapshot of the user taken at login. It is cached in
// memory and persisted in the "session" record together with a signed token;
// a stored session is honoured on the next start only while it is younger
// than the configured maximum age and its user still exists.
package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/cryptox"
	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/dmitrijs2005/mj36/internal/store"
	"github.com/go-playground/validator/v10"
)

const (
	// DefaultMaxAge is how long a stored session stays valid.
	DefaultMaxAge = 7 * 24 * time.Hour

	// MinPasswordLength applies to registration and password changes.
	MinPasswordLength = 6
)

// Navigator is told when the user must be sent back to the login screen.
type Navigator interface {
	NavigateToLogin()
}

// LockState clears the app lock on logout.
type LockState interface {
	ClearLockState(ctx context.Context) error
}

// ProfileUpdate lists the profile fields to change; empty fields are kept.
type ProfileUpdate struct {
	Username string
	Avatar   string
}

type Manager struct {
	store    *store.Store
	repo     records.Repository
	secret   []byte
	maxAge   time.Duration
	now      func() time.Time
	nav      Navigator
	lock     LockState
	logger   logging.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	current *models.Session
}

type Option func(*Manager)

func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) { m.maxAge = d }
}

func WithNavigator(nav Navigator) Option {
	return func(m *Manager) { m.nav = nav }
}

// WithLockState makes Logout clear the lock through l instead of only
// deleting the lock record.
func WithLockState(l LockState) Option {
	return func(m *Manager) { m.lock = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a Manager on top of st. Session records are kept in repo
// and their tokens signed with secret.
func NewManager(st *store.Store, repo records.Repository, secret []byte, logger logging.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = logging.Nop()
	}

	m := &Manager{
		store:    st,
		repo:     repo,
		secret:   secret,
		maxAge:   DefaultMaxAge,
		now:      st.Now,
		logger:   logger.With("component", "session"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login checks the global code and the credentials and starts a session.
func (m *Manager) Login(ctx context.Context, globalCode, username, password string) (*models.Session, error) {
	settings, err := m.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if !codesEqual(globalCode, settings.GlobalCode) {
		return nil, common.ErrInvalidGlobalCode
	}

	user, err := m.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUnknownUser
		}
		return nil, err
	}

	ok, needsRehash := cryptox.VerifySecret(password, user.PasswordHash)
	if !ok {
		return nil, common.ErrWrongPassword
	}
	if needsRehash {
		m.rehashPassword(ctx, user.ID, password)
	}

	sess, err := m.start(ctx, *user)
	if err != nil {
		return nil, err
	}

	if err := m.store.TouchUser(ctx, user.ID); err != nil {
		m.logger.Warn(ctx, "failed to update last activity", "user", user.ID, "error", err)
	}

	m.logger.Info(ctx, "user logged in", "user", user.ID)
	return sess, nil
}

// Register creates a user and logs it in. An empty avatar gets the default.
func (m *Manager) Register(ctx context.Context, globalCode, username, password, avatar string) (*models.Session, error) {
	settings, err := m.store.Settings(ctx)
	if err != nil {
		return nil, err
	}
	if !codesEqual(globalCode, settings.GlobalCode) {
		return nil, common.ErrInvalidGlobalCode
	}

	if _, err := m.store.UserByUsername(ctx, username); err == nil {
		return nil, common.ErrUsernameTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if len(password) < MinPasswordLength {
		return nil, common.ErrPasswordTooShort
	}

	user, err := m.store.AddUser(ctx, store.NewUser{
		Username: username,
		Password: password,
		Avatar:   avatar,
	})
	if err != nil {
		return nil, err
	}

	sess, err := m.start(ctx, *user)
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "user registered", "user", user.ID)
	return sess, nil
}

// Logout ends the session, clears the lock and sends the user to the login
// screen.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.clear(ctx); err != nil {
		return err
	}

	var err error
	if m.lock != nil {
		err = m.lock.ClearLockState(ctx)
	} else {
		err = m.repo.Delete(ctx, records.KeyLockState)
	}
	if err != nil {
		return fmt.Errorf("failed to clear lock state: %w", err)
	}

	m.logger.Info(ctx, "user logged out")
	if m.nav != nil {
		m.nav.NavigateToLogin()
	}
	return nil
}

func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// CurrentUser returns the cached session snapshot, or nil.
func (m *Manager) CurrentUser() *models.SessionUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	u := m.current.User
	return &u
}

// IsAdmin reports whether the session user is an admin.
func (m *Manager) IsAdmin() bool {
	u := m.CurrentUser()
	return u != nil && u.IsAdmin
}

// VerifyAdminCode checks code against the stored admin code.
func (m *Manager) VerifyAdminCode(ctx context.Context, code string) (bool, error) {
	settings, err := m.store.Settings(ctx)
	if err != nil {
		return false, err
	}
	return codesEqual(code, settings.AdminCode), nil
}

// LoadSession replaces the cached session with the stored one. A record that
// is incomplete, badly signed, too old or whose user is gone is deleted. It
// reports whether a session was restored.
func (m *Manager) LoadSession(ctx context.Context) (bool, error) {
	b, err := m.repo.Get(ctx, records.KeySession)
	if err != nil {
		return false, err
	}
	if b == nil {
		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		return false, nil
	}

	sess, reason := m.decode(ctx, b)
	if sess == nil {
		m.logger.Info(ctx, "discarding stored session", "reason", reason)
		return false, m.clear(ctx)
	}

	m.mu.Lock()
	m.current = sess
	m.mu.Unlock()

	if err := m.store.TouchUser(ctx, sess.User.ID); err != nil {
		m.logger.Warn(ctx, "failed to update last activity", "user", sess.User.ID, "error", err)
	}
	return true, nil
}

// UpdateUserActivity sets lastActive of the session user to now. It does
// nothing without a session.
func (m *Manager) UpdateUserActivity(ctx context.Context) error {
	u := m.CurrentUser()
	if u == nil {
		return nil
	}
	return m.store.TouchUser(ctx, u.ID)
}

// ChangePassword replaces the session user's password.
func (m *Manager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	u := m.CurrentUser()
	if u == nil {
		return common.ErrNotLoggedIn
	}

	_, err := m.store.UpdateUser(ctx, u.ID, func(user *models.User) error {
		if ok, _ := cryptox.VerifySecret(currentPassword, user.PasswordHash); !ok {
			return common.ErrWrongPassword
		}
		if len(newPassword) < MinPasswordLength {
			return common.ErrPasswordTooShort
		}
		user.PasswordHash = cryptox.HashSecret(newPassword)
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	m.logger.Info(ctx, "password changed", "user", u.ID)
	return nil
}

// UpdateProfile changes the session user's name and avatar and refreshes
// the session snapshot.
func (m *Manager) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*models.SessionUser, error) {
	u := m.CurrentUser()
	if u == nil {
		return nil, common.ErrNotLoggedIn
	}

	user, err := m.store.UpdateUser(ctx, u.ID, func(user *models.User) error {
		if upd.Username != "" {
			user.Username = upd.Username
		}
		if upd.Avatar != "" {
			user.Avatar = upd.Avatar
		}
		return nil
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.current == nil {
		m.mu.Unlock()
		return nil, common.ErrNotLoggedIn
	}
	m.current.User.Username = user.Username
	m.current.User.Avatar = user.Avatar
	sess := *m.current
	m.mu.Unlock()

	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}
	return &sess.User, nil
}

func (m *Manager) start(ctx context.Context, u models.User) (*models.Session, error) {
	sess := models.NewSession(u, m.now())
	if err := m.persist(ctx, sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	out := sess
	return &out, nil
}

func (m *Manager) clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	if err := m.repo.Delete(ctx, records.KeySession); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (m *Manager) rehashPassword(ctx context.Context, id models.ID, password string) {
	_, err := m.store.UpdateUser(ctx, id, func(u *models.User) error {
		u.PasswordHash = cryptox.HashSecret(password)
		return nil
	})
	if err != nil {
		m.logger.Warn(ctx, "failed to migrate legacy password hash", "user", id, "error", err)
		return
	}
	m.logger.Info(ctx, "migrated legacy password hash", "user", id)
}

func codesEqual(given, want string) bool {
	return subtle.ConstantTimeCompare([]byte(given), []byte(want)) == 1
}

// record is the persisted form of a Session.
type record struct {
	User      *recordUser `json:"user" validate:"required"`
	Timestamp time.Time   `json:"timestamp" validate:"required"`
	Token     string      `json:"token" validate:"required"`
}

type recordUser struct {
	ID       models.ID `json:"id" validate:"required"`
	Username string    `json:"username" validate:"required"`
	Avatar   string    `json:"avatar"`
	IsAdmin  bool      `json:"isAdmin"`
}

func (m *Manager) persist(ctx context.Context, sess models.Session) error {
	token, err := GenerateToken(sess.User.ID.String(), m.secret, sess.Timestamp, m.maxAge)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	b, err := json.Marshal(record{
		User: &recordUser{
			ID:       sess.User.ID,
			Username: sess.User.Username,
			Avatar:   sess.User.Avatar,
			IsAdmin:  sess.User.IsAdmin,
		},
		Timestamp: sess.Timestamp,
		Token:     token,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := m.repo.Set(ctx, records.KeySession, b); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// decode returns the session held in b, or nil and the reason it is not
// acceptable.
func (m *Manager) decode(ctx context.Context, b []byte) (*models.Session, string) {
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, "unreadable record"
	}
	if err := m.validate.Struct(rec); err != nil {
		return nil, "missing fields"
	}

	now := m.now()
	if now.Sub(rec.Timestamp) >= m.maxAge {
		return nil, "expired"
	}

	uid, err := UserIDFromToken(rec.Token, m.secret, now)
	if err != nil || uid != rec.User.ID.String() {
		return nil, "invalid token"
	}

	if _, err := m.store.UserByID(ctx, rec.User.ID); err != nil {
		return nil, "user no longer exists"
	}

	return &models.Session{
		User: models.SessionUser{
			ID:       rec.User.ID,
			Username: rec.User.Username,
			Avatar:   rec.User.Avatar,
			IsAdmin:  rec.User.IsAdmin,
		},
		Timestamp: rec.Timestamp,
	}, ""
}
