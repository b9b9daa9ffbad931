package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/notify"
	"github.com/dmitrijs2005/mj36/internal/repositories/records"
)

// Cleanup drops expired stories and screenshot logs past retention and
// returns how many entries were removed. Nothing is saved when there is
// nothing to remove.
func (s *Store) Cleanup(ctx context.Context) (int, error) {
	var removed int

	s.mu.Lock()
	doc, err := s.loadLocked(ctx)
	if err == nil {
		removed = doc.PurgeExpired(s.now())
		if removed > 0 {
			err = s.saveLocked(ctx, doc)
		}
	}
	s.mu.Unlock()

	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info(ctx, "cleanup removed expired entries", "count", removed)
		s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	}
	return removed, nil
}

// Reset deletes the stored document and writes the seeded default again.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	err := s.repo.Delete(ctx, records.KeyAppData)
	var doc *models.Document
	if err == nil {
		doc = s.seedDocument()
		err = s.saveLocked(ctx, doc)
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to reset data: %w", err)
	}

	s.logger.Info(ctx, "data reset to defaults")
	s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	s.notifier.Notify(ctx, notify.EventDataReset, doc.Clone())
	return nil
}

// ExportData returns the stored document as JSON indented by two spaces.
func (s *Store) ExportData(ctx context.Context) (string, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(b), nil
}

// ImportData replaces the stored document with the one encoded in text. The
// content is not validated. It reports false, after logging the cause, when
// text is not a document or the write fails.
func (s *Store) ImportData(ctx context.Context, text string) bool {
	var doc models.Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		s.logger.Error(ctx, "import failed: invalid document", "error", err)
		return false
	}

	s.mu.Lock()
	b, err := s.repo.Get(ctx, records.KeyAppData)
	if err == nil {
		// Import overwrites whatever is stored.
		doc.Version = storedVersion(b)
		err = s.saveLocked(ctx, &doc)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error(ctx, "import failed", "error", err)
		return false
	}

	s.logger.Info(ctx, "data imported", "version", doc.Version)
	s.notifier.Notify(ctx, notify.EventDataChanged, doc.Clone())
	return true
}

// CheckExternal compares the stored version with the one this store last
// wrote or saw. When they differ another process has written the document;
// notify.EventExternalChange is emitted with the fresh document and true is
// returned.
func (s *Store) CheckExternal(ctx context.Context) (bool, error) {
	s.mu.Lock()
	b, err := s.repo.Get(ctx, records.KeyAppData)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	stored := storedVersion(b)
	if stored == s.lastVersion {
		s.mu.Unlock()
		return false, nil
	}
	prev := s.lastVersion
	s.lastVersion = stored
	doc, err := s.loadLocked(ctx)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.logger.Info(ctx, "document changed by another process", "from", prev, "to", stored)
	s.notifier.Notify(ctx, notify.EventExternalChange, doc)
	return true, nil
}
