package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or mutation matches no row.
var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFound reports whether err means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Store groups the repositories over one database handle.
type Store struct {
	db *gorm.DB

	Foods     *FoodRepository
	Diary     *DiaryRepository
	Streaks   *StreakRepository
	Favorites *FavoriteRepository
	Usage     *UsageRepository
	Settings  *SettingsRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		Foods:     NewFoodRepository(db),
		Diary:     NewDiaryRepository(db),
		Streaks:   NewStreakRepository(db),
		Favorites: NewFavoriteRepository(db),
		Usage:     NewUsageRepository(db),
		Settings:  NewSettingsRepository(db),
	}
}

// DB returns the underlying GORM database instance
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with repositories bound to a single transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
