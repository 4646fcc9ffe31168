package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Food struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"not null;index"`
	Producer    *string
	IsCustom    bool   `gorm:"not null;default:false"`
	IsVerified  bool   `gorm:"not null;default:false"`
	IsRecipe    bool   `gorm:"not null;default:false"`
	IsDeleted   bool   `gorm:"not null;default:false;index"`
	BaseUnit    string `gorm:"size:8;not null"`
	Nutrients   datatypes.JSONType[nutrition.Values]
	Countries   datatypes.JSONSlice[string]
	Language    string             `gorm:"size:8"`
	Servings    []Serving          `gorm:"foreignKey:FoodID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Food) TableName() string { return "foods" }

// BeforeCreate assigns an id to custom foods created without one.
func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

type Serving struct {
	ID       uint    `gorm:"primaryKey"`
	FoodID   string  `gorm:"size:64;not null;index"`
	Label    string  `gorm:"not null"`
	Amount   float64 `gorm:"not null"`
	Position int     `gorm:"not null;default:0"`
}

func (Serving) TableName() string { return "servings" }

type RecipeIngredient struct {
	ID       uint    `gorm:"primaryKey"`
	RecipeID string  `gorm:"size:64;not null;index"`
	FoodID   string  `gorm:"size:64;not null"`
	Quantity float64 `gorm:"not null"`
	Position int     `gorm:"not null;default:0"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

type MealEntry struct {
	ID              string  `gorm:"primaryKey;size:36"`
	FoodID          string  `gorm:"size:64;not null;index"`
	Meal            string  `gorm:"size:16;not null"`
	Day             string  `gorm:"size:10;not null;index"`
	ServingLabel    string  `gorm:"not null;default:''"`
	ServingAmount   float64 `gorm:"not null"`
	ServingQuantity float64 `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (MealEntry) TableName() string { return "meal_entries" }

func (e *MealEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// StreakDay marks a calendar day with at least one logged food.
type StreakDay struct {
	Day       string `gorm:"primaryKey;size:10"`
	CreatedAt time.Time
}

func (StreakDay) TableName() string { return "streak_days" }

type Favorite struct {
	FoodID          string `gorm:"primaryKey;size:64"`
	ServingLabel    string `gorm:"not null;default:''"`
	ServingQuantity float64
	CreatedAt       time.Time
}

func (Favorite) TableName() string { return "favorites" }

type FoodUsage struct {
	FoodID     string    `gorm:"primaryKey;size:64"`
	LastUsedAt time.Time `gorm:"not null"`
	UsageCount int       `gorm:"not null;default:0"`
}

func (FoodUsage) TableName() string { return "food_usages" }

// Setting is a JSON document stored under a key.
type Setting struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     datatypes.JSON
	UpdatedAt time.Time
}

func (Setting) TableName() string { return "settings" }

// Models lists every table for auto-migration.
func Models() []interface{} {
	return []interface{}{
		&Food{},
		&Serving{},
		&RecipeIngredient{},
		&MealEntry{},
		&StreakDay{},
		&Favorite{},
		&FoodUsage{},
		&Setting{},
	}
}
