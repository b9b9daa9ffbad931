package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/config"
	"github.com/dmitrijs2005/mj36/internal/lock"
	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/notify"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/dmitrijs2005/mj36/internal/session"
	"github.com/dmitrijs2005/mj36/internal/store"
)

// App is the composition root: it owns the database and every service and
// renders their results to the terminal.
type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	repo    records.Repository
	store   *store.Store
	session *session.Manager
	lock    *lock.Controller
	reader  *bufio.Reader
	out     io.Writer
	sub     notify.Subscription

	mu        sync.Mutex
	lastPosts []models.ID
	isAdmin   bool
}

// NewApp opens the database at c.DatabasePath and builds the services on it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a, err := newApp(ctx, c, logger, records.NewSQLiteRepository(db), os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, repo records.Repository, in io.Reader, out io.Writer) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	n := notify.New(logger)
	st := store.New(repo, n, logger)
	if err := st.Init(ctx); err != nil {
		return nil, err
	}

	secret, err := sessionSecret(ctx, c, repo)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		logger: logger,
		repo:   repo,
		store:  st,
		reader: bufio.NewReader(in),
		out:    out,
	}
	a.lock = lock.NewController(st, repo, logger, lock.WithSurface(a))
	a.session = session.NewManager(st, repo, []byte(secret), logger,
		session.WithMaxAge(c.SessionMaxAge),
		session.WithNavigator(a),
		session.WithLockState(a.lock),
	)
	a.sub = n.AddWatcher(a.onChange)

	if _, err := a.session.LoadSession(ctx); err != nil {
		logger.Warn(ctx, "failed to restore session", "error", err)
	}
	if _, err := a.lock.Restore(ctx); err != nil {
		logger.Warn(ctx, "failed to restore lock state", "error", err)
	}

	return a, nil
}

// sessionSecret returns the configured signing key, or the one generated on
// first start and kept in the database.
func sessionSecret(ctx context.Context, c *config.Config, repo records.Repository) (string, error) {
	if c.SessionSecret != "" {
		return c.SessionSecret, nil
	}

	b, err := repo.Get(ctx, records.KeySessionSecret)
	if err != nil {
		return "", err
	}
	if b != nil {
		return string(b), nil
	}

	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	if err := repo.Set(ctx, records.KeySessionSecret, []byte(secret)); err != nil {
		return "", err
	}
	return secret, nil
}

// Run starts the background jobs and the REPL and blocks until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := a.backgroundJobs()
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	a.Root(ctx)

	cancel()
	return <-done
}

// Close releases the database.
func (a *App) Close() error {
	a.store.Notifier().RemoveWatcher(a.sub)
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.session.IsLoggedIn()
}

func (a *App) isLocked() bool {
	return a.lock.IsAppLocked()
}

// NavigateToLogin is called by the session manager on logout.
func (a *App) NavigateToLogin() {
	a.mu.Lock()
	a.lastPosts = nil
	a.isAdmin = false
	a.mu.Unlock()
	fmt.Fprintln(a.out, "You are logged out. Type 'login' to continue.")
}

func (a *App) ShowLockOverlay() {
	fmt.Fprintln(a.out, "🔒 MJ36 is locked. Type 'unlock' and enter your PIN.")
}

func (a *App) HideLockOverlay() {
	fmt.Fprintln(a.out, "🔓 Unlocked.")
}

// onChange reacts to store notifications.
func (a *App) onChange(ctx context.Context, kind notify.EventKind, payload any) error {
	switch kind {
	case notify.EventFeatureChanged:
		if fc, ok := payload.(store.FeatureChange); ok {
			state := "off"
			if fc.Enabled {
				state = "on"
			}
			fmt.Fprintf(a.out, "Feature %s switched %s.\n", fc.Feature, state)
		}

	case notify.EventDataReset:
		a.mu.Lock()
		a.lastPosts = nil
		a.mu.Unlock()
		fmt.Fprintln(a.out, "All data was reset to defaults.")

	case notify.EventExternalChange:
		fmt.Fprintln(a.out, "Data was changed in another window.")
		// The user may have been deleted or logged out elsewhere.
		if a.session.IsLoggedIn() {
			if ok, err := a.session.LoadSession(ctx); err == nil && !ok {
				a.NavigateToLogin()
			}
		}
	}
	return nil
}
