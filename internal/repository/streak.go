package repository

import (
	"context"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StreakRepository handles the append-only streak day markers
type StreakRepository struct {
	db *gorm.DB
}

func NewStreakRepository(db *gorm.DB) *StreakRepository {
	return &StreakRepository{db: db}
}

// MarkDay records day as logged. Marking an already-marked day is a no-op.
func (r *StreakRepository) MarkDay(ctx context.Context, day calendar.Day) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&database.StreakDay{Day: day.String()}).Error
}

// ListDesc returns every marked day, newest first.
func (r *StreakRepository) ListDesc(ctx context.Context) ([]calendar.Day, error) {
	var days []string
	err := r.db.WithContext(ctx).
		Model(&database.StreakDay{}).
		Order("day DESC").
		Pluck("day", &days).Error
	if err != nil {
		return nil, err
	}
	return toDays(days), nil
}

// ListInRange returns marked days in the inclusive range, oldest first.
func (r *StreakRepository) ListInRange(ctx context.Context, from, to calendar.Day) ([]calendar.Day, error) {
	var days []string
	err := r.db.WithContext(ctx).
		Model(&database.StreakDay{}).
		Where("day BETWEEN ? AND ?", from.String(), to.String()).
		Order("day").
		Pluck("day", &days).Error
	if err != nil {
		return nil, err
	}
	return toDays(days), nil
}

func toDays(in []string) []calendar.Day {
	out := make([]calendar.Day, 0, len(in))
	for _, d := range in {
		out = append(out, calendar.Day(d))
	}
	return out
}
