package store

import (
	"context"

	"github.com/dmitrijs2005/mj36/internal/models"
	"github.com/dmitrijs2005/mj36/internal/notify"
)

// FeatureChange is the payload of notify.EventFeatureChanged.
type FeatureChange struct {
	Feature models.Feature `json:"feature"`
	Enabled bool           `json:"status"`
}

func (s *Store) Settings(ctx context.Context) (models.Settings, error) {
	doc, err := s.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

// UpdateSettings merges the set fields of patch into the stored settings.
func (s *Store) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	doc, err := s.mutate(ctx, func(doc *models.Document) error {
		patch.Apply(&doc.Settings)
		return nil
	})
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

// UpdateFeatureStatus switches one feature. After the save it emits
// notify.EventFeatureChanged with a FeatureChange payload.
func (s *Store) UpdateFeatureStatus(ctx context.Context, feature models.Feature, enabled bool) error {
	_, err := s.mutate(ctx, func(doc *models.Document) error {
		return doc.Settings.Features.Set(feature, enabled)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "feature switched", "feature", feature, "enabled", enabled)
	s.notifier.Notify(ctx, notify.EventFeatureChanged, FeatureChange{Feature: feature, Enabled: enabled})
	return nil
}
