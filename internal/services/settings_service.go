package services

import (
	"context"

	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
)

type SettingsService struct {
	store settings.Store
}

func NewSettingsService(store settings.Store) *SettingsService {
	return &SettingsService{store: store}
}

func (s *SettingsService) Load(ctx context.Context) (settings.Settings, error) {
	v, err := s.store.Load(ctx)
	if err != nil {
		return settings.Settings{}, apperrors.NewInternalError(err)
	}
	return v, nil
}

func (s *SettingsService) Save(ctx context.Context, v settings.Settings) (settings.Settings, error) {
	if err := v.Validate(); err != nil {
		return settings.Settings{}, apperrors.NewValidationError(err.Error())
	}
	if err := s.store.Save(ctx, v); err != nil {
		return settings.Settings{}, apperrors.NewInternalError(err)
	}
	logger.Info("Settings saved", "energy_goal", v.EnergyGoal, "goals", len(v.NutrientGoals))
	return v, nil
}

// SetGoal sets one goal given in the nutrient's display unit (mg for
// sodium, kcal for energy). Zero clears the goal.
func (s *SettingsService) SetGoal(ctx context.Context, n nutrition.Nutrient, display float64) (settings.Settings, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return settings.Settings{}, err
	}
	updated, err := current.WithGoal(n, nutrition.FromDisplay(n, display))
	if err != nil {
		return settings.Settings{}, apperrors.NewValidationError(err.Error())
	}
	return s.Save(ctx, updated)
}
