package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
)

// Meal is the slot of the day a food was eaten in.
type Meal string

const (
	Breakfast Meal = "breakfast"
	Lunch     Meal = "lunch"
	Dinner    Meal = "dinner"
	Snack     Meal = "snack"
)

// Meals lists the meal slots in display order.
func Meals() []Meal {
	return []Meal{Breakfast, Lunch, Dinner, Snack}
}

func ParseMeal(s string) (Meal, error) {
	m := Meal(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return m, nil
	}
	return "", fmt.Errorf("unknown meal %q", s)
}

// Serving is a named alias for an amount of a food's base unit
// ("slice" = 30 g).
type Serving struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Food is a nutritional reference entity. Nutrient values are always per one
// base unit, never per serving.
type Food struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Producer   *string            `json:"producer,omitempty"`
	IsCustom   bool               `json:"is_custom"`
	IsVerified bool               `json:"is_verified"`
	IsRecipe   bool               `json:"is_recipe"`
	IsDeleted  bool               `json:"is_deleted"`
	BaseUnit   nutrition.BaseUnit `json:"base_unit"`
	Nutrients  nutrition.Values   `json:"nutrients"`
	Servings   []Serving          `json:"servings"`
	Countries  []string           `json:"countries,omitempty"`
	Language   string             `json:"language,omitempty"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// BaseServing is the implicit serving of one base unit.
func (f *Food) BaseServing() Serving {
	return Serving{Label: "", Amount: 1}
}

// FindServing resolves a serving label. An empty label, or one naming the
// food's base unit, resolves to the one-base-unit serving.
func (f *Food) FindServing(label string) (Serving, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return f.BaseServing(), true
	}
	if u, err := nutrition.ParseBaseUnit(label); err == nil && u == f.BaseUnit {
		return f.BaseServing(), true
	}
	for _, s := range f.Servings {
		if strings.EqualFold(s.Label, label) {
			return s, true
		}
	}
	return Serving{}, false
}

// DefaultServing is the first named serving, or the base-unit serving.
func (f *Food) DefaultServing() Serving {
	if len(f.Servings) > 0 {
		return f.Servings[0]
	}
	return f.BaseServing()
}

// RecipeIngredient is one component of a recipe food; Quantity is in the
// ingredient's own base unit.
type RecipeIngredient struct {
	FoodID   string  `json:"food_id"`
	Quantity float64 `json:"quantity"`
	Food     *Food   `json:"food,omitempty"`
}

// MealEntry records that a food was eaten in a meal on a day.
type MealEntry struct {
	ID              string       `json:"id"`
	FoodID          string       `json:"food_id"`
	Meal            Meal         `json:"meal"`
	Day             calendar.Day `json:"day"`
	ServingLabel    string       `json:"serving_label"`
	ServingAmount   float64      `json:"serving_amount"`
	ServingQuantity float64      `json:"serving_quantity"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Quantity is the consumed amount in the food's base unit.
func (e *MealEntry) Quantity() float64 {
	return e.ServingAmount * e.ServingQuantity
}

// Favorite marks a food as a favorite with a remembered default serving.
type Favorite struct {
	FoodID          string    `json:"food_id"`
	ServingLabel    string    `json:"serving_label"`
	ServingQuantity float64   `json:"serving_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	Food            *Food     `json:"food,omitempty"`
}

// FoodUsage counts how often and how recently a food was logged. It backs
// the recent and frequent lists.
type FoodUsage struct {
	FoodID     string    `json:"food_id"`
	LastUsedAt time.Time `json:"last_used_at"`
	UsageCount int       `json:"usage_count"`
	Food       *Food     `json:"food,omitempty"`
}
