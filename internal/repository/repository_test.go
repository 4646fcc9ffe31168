package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return NewStore(db)
}

func saveFood(t *testing.T, s *Store, f *domain.Food) *domain.Food {
	t.Helper()
	if err := s.Foods.Upsert(context.Background(), f); err != nil {
		t.Fatalf("upsert %s: %v", f.Name, err)
	}
	return f
}

func bread() *domain.Food {
	return &domain.Food{
		ID:        "remote-bread",
		Name:      "Rye Bread",
		BaseUnit:  nutrition.Gram,
		Nutrients: nutrition.Values{nutrition.Energy: 2.5, nutrition.Carbohydrate: 0.48},
		Servings:  []domain.Serving{{Label: "slice", Amount: 30}, {Label: "loaf", Amount: 500}},
	}
}

func TestFoodUpsertReplacesServings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	f := saveFood(t, s, bread())

	f.Name = "Dark Rye Bread"
	f.Servings = []domain.Serving{{Label: "thin slice", Amount: 20}}
	saveFood(t, s, f)

	got, err := s.Foods.Get(ctx, "remote-bread")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Dark Rye Bread" {
		t.Errorf("name = %q", got.Name)
	}
	if len(got.Servings) != 1 || got.Servings[0].Label != "thin slice" {
		t.Errorf("servings = %+v", got.Servings)
	}
	if got.Nutrients[nutrition.Carbohydrate] != 0.48 {
		t.Errorf("nutrients = %v", got.Nutrients)
	}
}

func TestFoodCustomGetsGeneratedID(t *testing.T) {
	s := newTestStore(t)
	f := saveFood(t, s, &domain.Food{Name: "Granola", IsCustom: true, BaseUnit: nutrition.Gram})
	if f.ID == "" {
		t.Fatal("expected id to be written back")
	}
}

func TestFoodSearchLocalAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	saveFood(t, s, bread())
	custom := saveFood(t, s, &domain.Food{Name: "Banana Bread", IsCustom: true, BaseUnit: nutrition.Gram})
	saveFood(t, s, &domain.Food{ID: "milk", Name: "Milk", BaseUnit: nutrition.Milliliter})

	got, err := s.Foods.SearchLocal(ctx, "BREAD", false, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("found %d foods, want 2", len(got))
	}

	customs, err := s.Foods.ListCustom(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(customs) != 1 || customs[0].ID != custom.ID {
		t.Errorf("custom = %+v", customs)
	}

	if err := s.Foods.SoftDelete(ctx, custom.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Foods.SoftDelete(ctx, custom.ID); !IsNotFound(err) {
		t.Errorf("second delete error = %v, want not found", err)
	}
	got, _ = s.Foods.SearchLocal(ctx, "bread", false, 10)
	if len(got) != 1 {
		t.Errorf("deleted food still searchable")
	}
	deleted, err := s.Foods.Get(ctx, custom.ID)
	if err != nil || !deleted.IsDeleted {
		t.Errorf("deleted food should stay readable: %v %+v", err, deleted)
	}
}

func TestFoodSearchLocalTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	saveFood(t, s, &domain.Food{Name: "100% Orange Juice", IsCustom: true, BaseUnit: nutrition.Milliliter})
	saveFood(t, s, &domain.Food{Name: "1000 Island Dressing", IsCustom: true, BaseUnit: nutrition.Gram})
	saveFood(t, s, &domain.Food{Name: "Pad_Thai", IsCustom: true, BaseUnit: nutrition.Gram})
	saveFood(t, s, &domain.Food{Name: "Pad Thai", IsCustom: true, BaseUnit: nutrition.Gram})

	tests := []struct {
		query string
		want  []string
	}{
		{"100%", []string{"100% Orange Juice"}},
		{"pad_", []string{"Pad_Thai"}},
		{"%", []string{"100% Orange Juice"}},
		{`\`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.Foods.SearchLocal(ctx, tt.query, false, 10)
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, f := range got {
				names = append(names, f.Name)
			}
			if strings.Join(names, "|") != strings.Join(tt.want, "|") {
				t.Errorf("SearchLocal(%q) = %v, want %v", tt.query, names, tt.want)
			}
		})
	}
}

func TestFoodRecipeIngredients(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	saveFood(t, s, bread())
	recipe := &domain.Food{Name: "Sandwich", IsCustom: true, IsRecipe: true, BaseUnit: nutrition.Gram}
	err := s.Foods.SaveRecipe(ctx, recipe, []domain.RecipeIngredient{{FoodID: "remote-bread", Quantity: 60}})
	if err != nil {
		t.Fatal(err)
	}

	ings, err := s.Foods.Ingredients(ctx, recipe.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ings) != 1 || ings[0].Quantity != 60 || ings[0].Food == nil || ings[0].Food.Name != "Rye Bread" {
		t.Errorf("ingredients = %+v", ings)
	}
}

func TestDiaryCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	day := calendar.Day("2024-03-10")

	e := &domain.MealEntry{FoodID: "remote-bread", Meal: domain.Breakfast, Day: day, ServingLabel: "slice", ServingAmount: 30, ServingQuantity: 2}
	if err := s.Diary.Create(ctx, e); err != nil {
		t.Fatal(err)
	}
	if e.ID == "" {
		t.Fatal("expected id")
	}

	e.Meal = domain.Lunch
	e.ServingQuantity = 3
	if err := s.Diary.Update(ctx, e); err != nil {
		t.Fatal(err)
	}
	got, err := s.Diary.Get(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Meal != domain.Lunch || got.Quantity() != 90 || got.Day != day {
		t.Errorf("entry = %+v", got)
	}

	list, err := s.Diary.ListByDay(ctx, day)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByDay = %v, %v", list, err)
	}
	if next, _ := s.Diary.ListByDay(ctx, day.AddDays(1)); len(next) != 0 {
		t.Errorf("next day entries = %v", next)
	}

	if err := s.Diary.Delete(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Diary.Delete(ctx, e.ID); !IsNotFound(err) {
		t.Errorf("delete missing = %v", err)
	}
	if err := s.Diary.Update(ctx, e); !IsNotFound(err) {
		t.Errorf("update missing = %v", err)
	}
}

func TestStreakMarkDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	for _, d := range []calendar.Day{"2024-01-02", "2024-01-03", "2024-01-02", "2023-12-31"} {
		if err := s.Streaks.MarkDay(ctx, d); err != nil {
			t.Fatalf("MarkDay(%s): %v", d, err)
		}
	}
	days, err := s.Streaks.ListDesc(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []calendar.Day{"2024-01-03", "2024-01-02", "2023-12-31"}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want[i])
		}
	}

	jan, err := s.Streaks.ListInRange(ctx, "2024-01-01", "2024-01-31")
	if err != nil || len(jan) != 2 || jan[0] != "2024-01-02" {
		t.Errorf("ListInRange = %v, %v", jan, err)
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	saveFood(t, s, bread())

	if err := s.Favorites.Put(ctx, &domain.Favorite{FoodID: "remote-bread", ServingLabel: "slice", ServingQuantity: 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Favorites.Put(ctx, &domain.Favorite{FoodID: "remote-bread", ServingLabel: "slice", ServingQuantity: 2}); err != nil {
		t.Fatal(err)
	}

	favs, err := s.Favorites.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(favs) != 1 || favs[0].ServingQuantity != 2 || favs[0].Food == nil {
		t.Errorf("favorites = %+v", favs)
	}

	if err := s.Favorites.Remove(ctx, "remote-bread"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Favorites.Get(ctx, "remote-bread"); !IsNotFound(err) {
		t.Errorf("Get after remove = %v", err)
	}
}

func TestUsageRecentAndFrequent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	saveFood(t, s, bread())
	saveFood(t, s, &domain.Food{ID: "milk", Name: "Milk", BaseUnit: nutrition.Milliliter})
	gone := saveFood(t, s, &domain.Food{Name: "Old Mix", IsCustom: true, BaseUnit: nutrition.Gram})

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	touches := []struct {
		id string
		at time.Time
	}{
		{"remote-bread", base},
		{"remote-bread", base.Add(time.Hour)},
		{"milk", base.Add(2 * time.Hour)},
		{gone.ID, base.Add(3 * time.Hour)},
	}
	for _, tc := range touches {
		if err := s.Usage.Touch(ctx, tc.id, tc.at); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Foods.SoftDelete(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}

	recent, err := s.Usage.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].FoodID != "milk" {
		t.Errorf("recent = %+v", recent)
	}

	frequent, err := s.Usage.Frequent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(frequent) != 1 || frequent[0].FoodID != "remote-bread" || frequent[0].UsageCount != 2 {
		t.Errorf("frequent = %+v", frequent)
	}
	if frequent[0].Food == nil || frequent[0].Food.Name != "Rye Bread" {
		t.Errorf("food not loaded: %+v", frequent[0])
	}
}

func TestSettingsGetPut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, ok, err := s.Settings.Get(ctx, "settings"); err != nil || ok {
		t.Fatalf("empty Get = %v, %v", ok, err)
	}
	if err := s.Settings.Put(ctx, "settings", []byte(`{"energy_goal":2000}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Settings.Put(ctx, "settings", []byte(`{"energy_goal":1800}`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Settings.Get(ctx, "settings")
	if err != nil || !ok || string(v) != `{"energy_goal":1800}` {
		t.Errorf("Get = %s, %v, %v", v, ok, err)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Streaks.MarkDay(ctx, "2024-02-01"); err != nil {
			return err
		}
		return ErrNotFound
	})
	if !IsNotFound(err) {
		t.Fatalf("err = %v", err)
	}
	days, _ := s.Streaks.ListDesc(ctx)
	if len(days) != 0 {
		t.Errorf("marker survived rollback: %v", days)
	}
}
