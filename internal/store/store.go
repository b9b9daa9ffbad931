// Package store owns the single persisted MJ36 document.
//
// Every mutation is a whole-document read-modify-write: load, change in
// memory, save. Saves are versioned; a save whose base version no longer
// matches the stored one is rejected with common.ErrVersionConflict, so a
// second process cannot silently overwrite the first one's changes. After a
// successful save the change notifier is called synchronously.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/mj36/internal/common"
	"github.com/dmitrijs2005/mj36/internal/logging"
	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/notify"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
	"github.com/google/uuid"
)

type Store struct {
	mu       sync.Mutex
	repo     records.Repository
	notifier *notify.Notifier
	logger   logging.Logger
	now      func() time.Time
	newID    func() models.ID

	seed *models.Document
	// lastVersion is the document version this instance last wrote or
	// observed through CheckExternal.
	lastVersion int64
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(fn func() models.ID) Option {
	return func(s *Store) { s.newID = fn }
}

func New(repo records.Repository, notifier *notify.Notifier, logger logging.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	if notifier == nil {
		notifier = notify.New(logger)
	}

	s := &Store{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With("component", "store"),
		now:      time.Now,
		newID:    func() models.ID { return models.ID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notifier returns the notifier called after every save.
func (s *Store) Notifier() *notify.Notifier {
	return s.notifier
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Init writes the seeded default document when none is stored yet.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()

	b, err := s.repo.Get(ctx, records.KeyAppData)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if b != nil {
		s.lastVersion = storedVersion(b)
		s.mu.Unlock()
		return nil
	}

	doc := s.seedDocument()
	err = s.saveLocked(ctx, doc)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to seed document: %w", err)
	}

	s.logger.Info(ctx, "seeded default document", "users", len(doc.Users))
	s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	return nil
}

// Load returns the stored document, or the seeded default when nothing is
// stored or the stored record cannot be decoded.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

// Save persists doc as a whole. doc.Version must be the version it was
// loaded with; on success it is advanced to the stored version.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	err := s.saveLocked(ctx, doc)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	return nil
}

// mutate runs fn against a freshly loaded document and saves the result.
// Nothing is saved when fn fails.
func (s *Store) mutate(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	s.mu.Lock()
	doc, err := s.loadLocked(ctx)
	if err == nil {
		err = fn(doc)
	}
	if err == nil {
		err = s.saveLocked(ctx, doc)
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	return doc, nil
}

func (s *Store) loadLocked(ctx context.Context) (*models.Document, error) {
	b, err := s.repo.Get(ctx, records.KeyAppData)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return s.seedDocument(), nil
	}

	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		s.logger.Warn(ctx, "stored document is corrupt, using defaults", "error", err)
		// Based on the corrupt record so the next save replaces it.
		seed := s.seedDocument()
		seed.Version = storedVersion(b)
		return seed, nil
	}
	return &doc, nil
}

func (s *Store) saveLocked(ctx context.Context, doc *models.Document) error {
	base := doc.Version
	next := base + 1

	doc.Version = next
	b, err := json.Marshal(doc)
	doc.Version = base
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	err = s.repo.Update(ctx, records.KeyAppData, func(current []byte) ([]byte, error) {
		if stored := storedVersion(current); stored != base {
			return nil, fmt.Errorf("%w: stored version %d, base version %d", common.ErrVersionConflict, stored, base)
		}
		return b, nil
	})
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			s.logger.Warn(ctx, "rejected stale write", "error", err)
		}
		return err
	}

	doc.Version = next
	s.lastVersion = next
	s.logger.Debug(ctx, "document saved", "version", next)
	return nil
}

// seedDocument returns a copy of the seeded default document. The seed is
// built once so the password hashing cost is paid once per process.
func (s *Store) seedDocument() *models.Document {
	if s.seed == nil {
		s.seed = models.SeedDocument(s.now(), s.newID, hashSecret)
	}
	return s.seed.Clone()
}

// storedVersion extracts the version of an encoded document. Missing or
// undecodable records count as version 0.
func storedVersion(b []byte) int64 {
	if b == nil {
		return 0
	}
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return 0
	}
	return v.Version
}
