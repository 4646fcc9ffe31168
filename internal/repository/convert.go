package repository

import (
	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"gorm.io/datatypes"
)

func foodToRecord(f *domain.Food) database.Food {
	rec := database.Food{
		ID:         f.ID,
		Name:       f.Name,
		Producer:   f.Producer,
		IsCustom:   f.IsCustom,
		IsVerified: f.IsVerified,
		IsRecipe:   f.IsRecipe,
		IsDeleted:  f.IsDeleted,
		BaseUnit:   string(f.BaseUnit),
		Nutrients:  datatypes.NewJSONType(f.Nutrients.Clone()),
		Countries:  datatypes.JSONSlice[string](f.Countries),
		Language:   f.Language,
	}
	if rec.Countries == nil {
		rec.Countries = datatypes.JSONSlice[string]{}
	}
	return rec
}

func foodFromRecord(rec *database.Food) *domain.Food {
	f := &domain.Food{
		ID:         rec.ID,
		Name:       rec.Name,
		Producer:   rec.Producer,
		IsCustom:   rec.IsCustom,
		IsVerified: rec.IsVerified,
		IsRecipe:   rec.IsRecipe,
		IsDeleted:  rec.IsDeleted,
		BaseUnit:   nutrition.BaseUnit(rec.BaseUnit),
		Nutrients:  rec.Nutrients.Data(),
		Countries:  []string(rec.Countries),
		Language:   rec.Language,
		UpdatedAt:  rec.UpdatedAt,
		Servings:   make([]domain.Serving, 0, len(rec.Servings)),
	}
	if f.Nutrients == nil {
		f.Nutrients = nutrition.Values{}
	}
	for _, s := range rec.Servings {
		f.Servings = append(f.Servings, domain.Serving{Label: s.Label, Amount: s.Amount})
	}
	return f
}

func entryToRecord(e *domain.MealEntry) database.MealEntry {
	return database.MealEntry{
		ID:              e.ID,
		FoodID:          e.FoodID,
		Meal:            string(e.Meal),
		Day:             e.Day.String(),
		ServingLabel:    e.ServingLabel,
		ServingAmount:   e.ServingAmount,
		ServingQuantity: e.ServingQuantity,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func entryFromRecord(rec *database.MealEntry) domain.MealEntry {
	return domain.MealEntry{
		ID:              rec.ID,
		FoodID:          rec.FoodID,
		Meal:            domain.Meal(rec.Meal),
		Day:             calendar.Day(rec.Day),
		ServingLabel:    rec.ServingLabel,
		ServingAmount:   rec.ServingAmount,
		ServingQuantity: rec.ServingQuantity,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
