package repository

import (
	"context"

	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository stores JSON documents by key
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the document stored under key. ok is false when none exists.
func (r *SettingsRepository) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	var rec database.Setting
	err = r.db.WithContext(ctx).Where(&database.Setting{Key: key}).First(&rec).Error
	if IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

func (r *SettingsRepository) Put(ctx context.Context, key string, value []byte) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&database.Setting{Key: key, Value: datatypes.JSON(value)}).Error
}
