package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vladimiradmaev/calorie-tracker/internal/app"
	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := "db:\n  driver: sqlite\n  path: " + filepath.Join(dir, "cal.db") + "\n" +
		"foodapi:\n  base_url: http://127.0.0.1:1\n  timeout: 1s\n" +
		"telegram:\n  token: 123456789:abcdefgh\n  owner_id: 1\n" +
		"timezone: UTC\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func seedFood(t *testing.T, cfgPath string) *domain.Food {
	t.Helper()
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	food, err := a.Services.Foods.CreateCustom(context.Background(), services.FoodInput{
		Name:      "Rye Bread",
		Nutrients: nutrition.Values{nutrition.Energy: 2.5},
		Servings:  []domain.Serving{{Label: "slice", Amount: 30}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return food
}

func TestValidateConfig(t *testing.T) {
	out, err := run(t, "validate-config", "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("validate-config error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Configuration is valid") || !strings.Contains(out, "1234...efgh") {
		t.Errorf("output = %s", out)
	}
}

func TestLogThenDayAndStreak(t *testing.T) {
	cfgPath := writeConfig(t)
	food := seedFood(t, cfgPath)

	out, err := run(t, "--config", cfgPath, "log", food.ID, "2 slice", "--meal", "lunch")
	if err != nil {
		t.Fatalf("log error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "logged Rye Bread to lunch") {
		t.Errorf("log output = %s", out)
	}

	out, err = run(t, "--config", cfgPath, "day")
	if err != nil {
		t.Fatalf("day error = %v", err)
	}
	if !strings.Contains(out, "2 slices (60 g)") || !strings.Contains(out, "150 kcal") {
		t.Errorf("day output = %s", out)
	}

	out, err = run(t, "--config", cfgPath, "streak")
	if err != nil {
		t.Fatalf("streak error = %v", err)
	}
	if !strings.Contains(out, "current 1") {
		t.Errorf("streak output = %s", out)
	}
}

func TestSearchFindsCustomFood(t *testing.T) {
	cfgPath := writeConfig(t)
	seedFood(t, cfgPath)

	out, err := run(t, "--config", cfgPath, "search", "rye")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.Contains(out, "Rye Bread") || !strings.Contains(out, "custom") {
		t.Errorf("search output = %s", out)
	}
}

func TestLogRejectsUnknownMeal(t *testing.T) {
	if _, err := run(t, "--config", writeConfig(t), "log", "x", "1", "--meal", "brunch"); err == nil {
		t.Error("expected an error for an unknown meal")
	}
}

func TestPrintDayMicronutrients(t *testing.T) {
	s := &services.DaySummary{
		Day: calendar.Day("2024-03-10"),
		Totals: nutrition.Aggregate([]nutrition.LoggedFoodAmount{
			{Nutrients: nutrition.Values{nutrition.Energy: 1, nutrition.Sodium: 0.004}, Quantity: 150},
		}),
	}

	var out bytes.Buffer
	if err := printDay(&out, s, settings.Settings{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "Sodium") {
		t.Errorf("sodium shown while disabled:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Fat") || strings.Contains(out.String(), "- g") {
		t.Errorf("unknown fat should print without a unit:\n%s", out.String())
	}

	out.Reset()
	if err := printDay(&out, s, settings.Settings{ShowMicronutrients: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "600 mg") {
		t.Errorf("sodium missing:\n%s", out.String())
	}
}
