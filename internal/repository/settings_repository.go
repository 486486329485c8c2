package repository

import (
	"context"
	"errors"

	"github.com/somnus-app/somnus/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	Get(ctx context.Context) (*domain.UserSettings, error)
	Save(ctx context.Context, settings *domain.UserSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// Get returns the settings row, falling back to defaults when nothing
// has been saved yet.
func (r *settingsRepository) Get(ctx context.Context) (*domain.UserSettings, error) {
	var settings domain.UserSettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", domain.SettingsID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}
	return &settings, nil
}

// Save upserts the singleton settings row.
func (r *settingsRepository) Save(ctx context.Context, settings *domain.UserSettings) error {
	settings.ID = domain.SettingsID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(settings).Error
}
