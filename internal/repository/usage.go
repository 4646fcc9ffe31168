package repository

import (
	"context"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UsageRepository tracks how often and how recently foods are logged
type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Touch counts one more use of a food at the given time.
func (r *UsageRepository) Touch(ctx context.Context, foodID string, at time.Time) error {
	at = at.UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "food_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"usage_count":  gorm.Expr("food_usages.usage_count + 1"),
				"last_used_at": at,
			}),
		}).
		Create(&database.FoodUsage{FoodID: foodID, LastUsedAt: at, UsageCount: 1}).Error
}

// Recent returns the most recently used foods first.
func (r *UsageRepository) Recent(ctx context.Context, limit int) ([]domain.FoodUsage, error) {
	return r.list(ctx, "last_used_at DESC", limit)
}

// Frequent returns the most used foods first, ties broken by recency.
func (r *UsageRepository) Frequent(ctx context.Context, limit int) ([]domain.FoodUsage, error) {
	return r.list(ctx, "usage_count DESC, last_used_at DESC", limit)
}

// list skips usages of deleted foods.
func (r *UsageRepository) list(ctx context.Context, order string, limit int) ([]domain.FoodUsage, error) {
	q := r.db.WithContext(ctx).
		Model(&database.FoodUsage{}).
		Select("food_usages.*").
		Joins("JOIN foods ON foods.id = food_usages.food_id AND foods.is_deleted = ?", false).
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []database.FoodUsage
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.FoodID)
	}
	foods, err := NewFoodRepository(r.db).GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FoodUsage, 0, len(recs))
	for _, rec := range recs {
		out = append(out, domain.FoodUsage{
			FoodID:     rec.FoodID,
			LastUsedAt: rec.LastUsedAt,
			UsageCount: rec.UsageCount,
			Food:       foods[rec.FoodID],
		})
	}
	return out, nil
}
