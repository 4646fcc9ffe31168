// Package settings holds the user's goals and display preferences.
//
// Settings are loaded through a Store and handed to whatever needs them;
// there is no package-level current value.
package settings

import (
	"context"
	"fmt"

	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
)

// Settings are the owner's goals and display preferences. Goals are in
// storage units: kcal for energy, grams for everything else.
type Settings struct {
	EnergyGoal         float64                        `json:"energy_goal"`
	NutrientGoals      map[nutrition.Nutrient]float64 `json:"nutrient_goals"`
	ShowMicronutrients bool                           `json:"show_micronutrients"`
	DefaultMeal        domain.Meal                    `json:"default_meal"`
}

// Defaults returns the settings used before the owner saved any.
func Defaults() Settings {
	return Settings{
		EnergyGoal: 2000,
		NutrientGoals: map[nutrition.Nutrient]float64{
			nutrition.Protein:      50,
			nutrition.Carbohydrate: 275,
			nutrition.Fat:          78,
			nutrition.Fiber:        28,
		},
		DefaultMeal: domain.Breakfast,
	}
}

// Goal returns the goal for n, if one is set.
func (s Settings) Goal(n nutrition.Nutrient) (float64, bool) {
	if n == nutrition.Energy {
		return s.EnergyGoal, s.EnergyGoal > 0
	}
	g, ok := s.NutrientGoals[n]
	return g, ok && g > 0
}

// WithGoal returns a copy of s with the goal for n set. A zero goal clears it.
func (s Settings) WithGoal(n nutrition.Nutrient, goal float64) (Settings, error) {
	if !n.Valid() {
		return s, fmt.Errorf("unknown nutrient %q", n)
	}
	if goal < 0 {
		return s, fmt.Errorf("goal for %s must not be negative", n)
	}
	if n == nutrition.Energy {
		s.EnergyGoal = goal
		return s, nil
	}
	goals := make(map[nutrition.Nutrient]float64, len(s.NutrientGoals)+1)
	for k, v := range s.NutrientGoals {
		goals[k] = v
	}
	if goal == 0 {
		delete(goals, n)
	} else {
		goals[n] = goal
	}
	s.NutrientGoals = goals
	return s, nil
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if s.EnergyGoal < 0 {
		return fmt.Errorf("energy goal must not be negative")
	}
	for n, g := range s.NutrientGoals {
		if !n.Valid() {
			return fmt.Errorf("unknown nutrient %q", n)
		}
		if g < 0 {
			return fmt.Errorf("goal for %s must not be negative", n)
		}
	}
	if s.DefaultMeal != "" {
		if _, err := domain.ParseMeal(string(s.DefaultMeal)); err != nil {
			return err
		}
	}
	return nil
}

// normalize fills fields left empty by an older stored document.
func (s Settings) normalize() Settings {
	if s.NutrientGoals == nil {
		s.NutrientGoals = map[nutrition.Nutrient]float64{}
	}
	if s.DefaultMeal == "" {
		s.DefaultMeal = domain.Breakfast
	}
	return s
}

// Store loads and saves settings.
type Store interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
