package database

import (
	"testing"

	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/database/migrations"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openMemory(t)
	for _, table := range []string{"foods", "servings", "meal_entries", "streak_days", "favorites", "food_usages", "settings", "schema_migrations"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing", table)
		}
	}

	var applied []migrations.MigrationRecord
	if err := db.Find(&applied).Error; err != nil {
		t.Fatal(err)
	}
	if len(applied) != 2 {
		t.Errorf("applied %d migrations, want 2", len(applied))
	}
}

func TestFoodRoundTripsJSONColumns(t *testing.T) {
	db := openMemory(t)
	food := Food{
		Name:      "Oats",
		BaseUnit:  "g",
		Nutrients: datatypes.NewJSONType(nutrition.Values{nutrition.Energy: 3.8, nutrition.Protein: 0.13}),
		Countries: datatypes.JSONSlice[string]{"de", "at"},
		Servings:  []Serving{{Label: "cup", Amount: 80}},
	}
	if err := db.Create(&food).Error; err != nil {
		t.Fatal(err)
	}
	if food.ID == "" {
		t.Fatal("expected generated id")
	}

	var got Food
	if err := db.Preload("Servings").First(&got, "id = ?", food.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.Nutrients.Data()[nutrition.Protein] != 0.13 {
		t.Errorf("nutrients = %v", got.Nutrients.Data())
	}
	if len(got.Countries) != 2 || len(got.Servings) != 1 || got.Servings[0].Amount != 80 {
		t.Errorf("unexpected food %+v", got)
	}
}

func TestUnsupportedDriver(t *testing.T) {
	if _, err := Open(config.DBConfig{Driver: "mysql"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
