package repository

import (
	"context"

	"github.com/oggyb/sportly/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository reads admin key/value settings.
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new repository bound to the given DB connection.
func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: database}
}

// List returns all settings ordered by key.
func (r *SettingsRepository) List(ctx context.Context) ([]db.AdminSetting, error) {
	var settings []db.AdminSetting
	err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&settings).Error
	return settings, err
}
