package repository

import (
	"context"

	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository handles favorite foods
type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Put marks a food as favorite or replaces its remembered serving.
func (r *FavoriteRepository) Put(ctx context.Context, fav *domain.Favorite) error {
	rec := database.Favorite{
		FoodID:          fav.FoodID,
		ServingLabel:    fav.ServingLabel,
		ServingQuantity: fav.ServingQuantity,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "food_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"serving_label", "serving_quantity"}),
		}).
		Create(&rec).Error
	if err != nil {
		return err
	}
	fav.CreatedAt = rec.CreatedAt
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, foodID string) error {
	res := r.db.WithContext(ctx).Where("food_id = ?", foodID).Delete(&database.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) Get(ctx context.Context, foodID string) (*domain.Favorite, error) {
	var rec database.Favorite
	if err := r.db.WithContext(ctx).First(&rec, "food_id = ?", foodID).Error; err != nil {
		return nil, err
	}
	return favoriteFromRecord(&rec), nil
}

// List returns favorites, newest first, with their foods loaded.
func (r *FavoriteRepository) List(ctx context.Context) ([]domain.Favorite, error) {
	var recs []database.Favorite
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&recs).Error; err != nil {
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

	out := make([]domain.Favorite, 0, len(recs))
	for i := range recs {
		fav := favoriteFromRecord(&recs[i])
		fav.Food = foods[fav.FoodID]
		out = append(out, *fav)
	}
	return out, nil
}

func favoriteFromRecord(rec *database.Favorite) *domain.Favorite {
	return &domain.Favorite{
		FoodID:          rec.FoodID,
		ServingLabel:    rec.ServingLabel,
		ServingQuantity: rec.ServingQuantity,
		CreatedAt:       rec.CreatedAt,
	}
}
