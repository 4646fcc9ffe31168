package repository

import (
	"context"
	"strings"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FoodRepository handles food, serving and recipe ingredient rows
type FoodRepository struct {
	db *gorm.DB
}

func NewFoodRepository(db *gorm.DB) *FoodRepository {
	return &FoodRepository{db: db}
}

func orderedServings(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// Get returns a food by id, including soft-deleted ones.
func (r *FoodRepository) Get(ctx context.Context, id string) (*domain.Food, error) {
	var rec database.Food
	err := r.db.WithContext(ctx).
		Preload("Servings", orderedServings).
		First(&rec, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return foodFromRecord(&rec), nil
}

// GetMany returns the foods with the given ids keyed by id. Unknown ids are
// left out.
func (r *FoodRepository) GetMany(ctx context.Context, ids []string) (map[string]*domain.Food, error) {
	out := make(map[string]*domain.Food, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var recs []database.Food
	err := r.db.WithContext(ctx).
		Preload("Servings", orderedServings).
		Where("id IN ?", ids).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	for i := range recs {
		out[recs[i].ID] = foodFromRecord(&recs[i])
	}
	return out, nil
}

// Upsert inserts or fully replaces a food and its servings. A food without
// an id gets a generated one, written back to f.
func (r *FoodRepository) Upsert(ctx context.Context, f *domain.Food) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertFood(tx, f)
	})
}

func upsertFood(tx *gorm.DB, f *domain.Food) error {
	rec := foodToRecord(f)
	err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "producer", "is_custom", "is_verified", "is_recipe", "is_deleted",
				"base_unit", "nutrients", "countries", "language", "updated_at",
			}),
		}).
		Create(&rec).Error
	if err != nil {
		return err
	}
	f.ID = rec.ID
	f.UpdatedAt = rec.UpdatedAt

	if err := tx.Where("food_id = ?", rec.ID).Delete(&database.Serving{}).Error; err != nil {
		return err
	}
	if len(f.Servings) == 0 {
		return nil
	}
	servings := make([]database.Serving, 0, len(f.Servings))
	for i, s := range f.Servings {
		servings = append(servings, database.Serving{FoodID: rec.ID, Label: s.Label, Amount: s.Amount, Position: i})
	}
	return tx.Create(&servings).Error
}

// SaveRecipe upserts a recipe food and replaces its ingredient list.
func (r *FoodRepository) SaveRecipe(ctx context.Context, f *domain.Food, ingredients []domain.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertFood(tx, f); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", f.ID).Delete(&database.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if len(ingredients) == 0 {
			return nil
		}
		rows := make([]database.RecipeIngredient, 0, len(ingredients))
		for i, ing := range ingredients {
			rows = append(rows, database.RecipeIngredient{RecipeID: f.ID, FoodID: ing.FoodID, Quantity: ing.Quantity, Position: i})
		}
		return tx.Create(&rows).Error
	})
}

// Ingredients lists a recipe's ingredients with their foods loaded.
func (r *FoodRepository) Ingredients(ctx context.Context, recipeID string) ([]domain.RecipeIngredient, error) {
	var rows []database.RecipeIngredient
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FoodID)
	}
	foods, err := r.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecipeIngredient, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RecipeIngredient{FoodID: row.FoodID, Quantity: row.Quantity, Food: foods[row.FoodID]})
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchLocal matches stored, non-deleted foods by name, case-insensitively.
// Only custom foods are returned when customOnly is set.
func (r *FoodRepository) SearchLocal(ctx context.Context, query string, customOnly bool, limit int) ([]*domain.Food, error) {
	q := r.db.WithContext(ctx).
		Preload("Servings", orderedServings).
		Where("is_deleted = ?", false)
	if query = strings.TrimSpace(query); query != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(query))+"%")
	}
	if customOnly {
		q = q.Where("is_custom = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []database.Food
	if err := q.Order("name").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Food, 0, len(recs))
	for i := range recs {
		out = append(out, foodFromRecord(&recs[i]))
	}
	return out, nil
}

// ListCustom returns all non-deleted custom foods and recipes by name.
func (r *FoodRepository) ListCustom(ctx context.Context) ([]*domain.Food, error) {
	return r.SearchLocal(ctx, "", true, 0)
}

// SoftDelete hides a food from search while keeping it for logged entries.
func (r *FoodRepository) SoftDelete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&database.Food{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
