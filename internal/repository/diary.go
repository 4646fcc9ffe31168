package repository

import (
	"context"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"gorm.io/gorm"
)

// DiaryRepository handles meal log entries
type DiaryRepository struct {
	db *gorm.DB
}

func NewDiaryRepository(db *gorm.DB) *DiaryRepository {
	return &DiaryRepository{db: db}
}

// Create stores a new entry and fills in its id and timestamps.
func (r *DiaryRepository) Create(ctx context.Context, e *domain.MealEntry) error {
	rec := entryToRecord(e)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	*e = entryFromRecord(&rec)
	return nil
}

func (r *DiaryRepository) Get(ctx context.Context, id string) (*domain.MealEntry, error) {
	var rec database.MealEntry
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, err
	}
	e := entryFromRecord(&rec)
	return &e, nil
}

// Update rewrites the meal, day and serving of an existing entry.
func (r *DiaryRepository) Update(ctx context.Context, e *domain.MealEntry) error {
	rec := entryToRecord(e)
	res := r.db.WithContext(ctx).
		Model(&database.MealEntry{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"meal":             rec.Meal,
			"day":              rec.Day,
			"serving_label":    rec.ServingLabel,
			"serving_amount":   rec.ServingAmount,
			"serving_quantity": rec.ServingQuantity,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&database.MealEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByDay returns a day's entries in the order they were logged.
func (r *DiaryRepository) ListByDay(ctx context.Context, day calendar.Day) ([]domain.MealEntry, error) {
	return r.ListRange(ctx, day, day)
}

// ListRange returns entries for the inclusive day range, oldest first.
func (r *DiaryRepository) ListRange(ctx context.Context, from, to calendar.Day) ([]domain.MealEntry, error) {
	var recs []database.MealEntry
	err := r.db.WithContext(ctx).
		Where("day BETWEEN ? AND ?", from.String(), to.String()).
		Order("day, created_at").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.MealEntry, 0, len(recs))
	for i := range recs {
		out = append(out, entryFromRecord(&recs[i]))
	}
	return out, nil
}
