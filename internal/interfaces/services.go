package interfaces

import (
	"context"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
	"github.com/vladimiradmaev/calorie-tracker/internal/streak"
)

// FoodServiceInterface defines the contract for food catalog operations
type FoodServiceInterface interface {
	Search(ctx context.Context, query string) ([]services.SearchResult, error)
	Get(ctx context.Context, id string) (*domain.Food, error)
	Remember(ctx context.Context, f *domain.Food) (*domain.Food, error)
	CreateCustom(ctx context.Context, in services.FoodInput) (*domain.Food, error)
	UpdateCustom(ctx context.Context, id string, in services.FoodInput) (*domain.Food, error)
	DeleteCustom(ctx context.Context, id string) error
	ListCustom(ctx context.Context) ([]*domain.Food, error)
	CreateRecipe(ctx context.Context, in services.RecipeInput) (*domain.Food, error)
	UpdateRecipe(ctx context.Context, id string, in services.RecipeInput) (*domain.Food, error)
	Ingredients(ctx context.Context, recipeID string) ([]domain.RecipeIngredient, error)
	AddFavorite(ctx context.Context, foodID, servingLabel string, quantity float64) (*domain.Favorite, error)
	RemoveFavorite(ctx context.Context, foodID string) error
	Favorites(ctx context.Context) ([]domain.Favorite, error)
	Recent(ctx context.Context, limit int) ([]domain.FoodUsage, error)
	Frequent(ctx context.Context, limit int) ([]domain.FoodUsage, error)
}

// DiaryServiceInterface defines the contract for meal log operations
type DiaryServiceInterface interface {
	Today() calendar.Day
	Log(ctx context.Context, in services.LogInput) (*domain.MealEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.MealEntry, error)
	UpdateEntry(ctx context.Context, id string, upd services.EntryUpdate) (*domain.MealEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	Day(ctx context.Context, day calendar.Day) (*services.DaySummary, error)
	Calendar(ctx context.Context, month calendar.Month) ([]services.CalendarDay, error)
}

// StreakServiceInterface defines the contract for streak operations
type StreakServiceInterface interface {
	Summary(ctx context.Context) (streak.Summary, error)
}

// SettingsServiceInterface defines the contract for goal and preference operations
type SettingsServiceInterface interface {
	Load(ctx context.Context) (settings.Settings, error)
	Save(ctx context.Context, v settings.Settings) (settings.Settings, error)
	SetGoal(ctx context.Context, n nutrition.Nutrient, display float64) (settings.Settings, error)
}

// PhotoEstimateServiceInterface defines the contract for photo estimates
type PhotoEstimateServiceInterface interface {
	Estimate(ctx context.Context, image []byte, mimeType string) (*services.PhotoEstimate, error)
	EstimateURL(ctx context.Context, imageURL string) (*services.PhotoEstimate, error)
}

// Services bundles what the delivery surfaces need. Photo may be nil when
// no Gemini key is configured.
type Services struct {
	Foods    FoodServiceInterface
	Diary    DiaryServiceInterface
	Streaks  StreakServiceInterface
	Settings SettingsServiceInterface
	Photo    PhotoEstimateServiceInterface
}
