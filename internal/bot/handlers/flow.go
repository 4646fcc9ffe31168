package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gertd/go-pluralize"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/utils"
)

// maxChoices bounds the foods offered in one keyboard.
const maxChoices = 8

var plural = pluralize.NewClient()

// choice is a food offered for logging with its suggested serving.
type choice struct {
	FoodID   string  `json:"food_id"`
	Label    string  `json:"label"`
	Serving  string  `json:"serving"`
	Quantity float64 `json:"quantity"`
}

// logFlow walks a chat from picking a food to a logged entry:
// offer -> pick -> meal -> amount.
type logFlow struct {
	api    API
	deps   Dependencies
	states state.StateManager
}

func newLogFlow(api API, deps Dependencies, states state.StateManager) *logFlow {
	return &logFlow{api: api, deps: deps, states: states}
}

func (f *logFlow) search(ctx context.Context, chatID int64, query string) error {
	query = strings.TrimSpace(query)
	results, err := f.deps.Foods.Search(ctx, query)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	if len(results) > maxChoices {
		results = results[:maxChoices]
	}

	choices := make([]choice, 0, len(results))
	for _, r := range results {
		choices = append(choices, choice{
			FoodID:   r.Food.ID,
			Label:    menus.ChoiceLabel(r),
			Serving:  r.Serving.Label,
			Quantity: r.ServingQuantity,
		})
	}
	return f.offer(chatID, menus.SearchText(query, results), choices)
}

// recent offers favorites first, then recently logged foods.
func (f *logFlow) recent(ctx context.Context, chatID int64) error {
	favorites, err := f.deps.Foods.Favorites(ctx)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	usage, err := f.deps.Foods.Recent(ctx, maxChoices)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}

	seen := make(map[string]bool)
	var choices []choice
	for _, fav := range favorites {
		if fav.Food == nil || fav.Food.IsDeleted {
			continue
		}
		seen[fav.FoodID] = true
		choices = append(choices, choice{FoodID: fav.FoodID, Label: "★ " + fav.Food.Name, Serving: fav.ServingLabel, Quantity: fav.ServingQuantity})
	}
	for _, u := range usage {
		if u.Food == nil || seen[u.FoodID] {
			continue
		}
		seen[u.FoodID] = true
		choices = append(choices, choice{FoodID: u.FoodID, Label: u.Food.Name, Serving: u.Food.DefaultServing().Label, Quantity: 1})
	}
	if len(choices) > maxChoices {
		choices = choices[:maxChoices]
	}
	if len(choices) == 0 {
		return f.offer(chatID, "Nothing logged yet. Send a food name to search.", nil)
	}
	return f.offer(chatID, "Favorites and recent foods:", choices)
}

func (f *logFlow) offer(chatID int64, text string, choices []choice) error {
	state.Reset(f.states, chatID)
	if len(choices) == 0 {
		kb := keyboards.Back()
		return menus.SendText(f.api, chatID, text, &kb)
	}

	data, err := json.Marshal(choices)
	if err != nil {
		return fmt.Errorf("failed to encode choices: %w", err)
	}
	f.states.SetTempData(chatID, state.KeyResults, string(data))

	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	kb := keyboards.Choices(labels)
	return menus.SendText(f.api, chatID, text, &kb)
}

func (f *logFlow) pick(ctx context.Context, chatID int64, index int) error {
	raw, ok := f.states.GetTempData(chatID, state.KeyResults)
	var choices []choice
	if ok {
		_ = json.Unmarshal([]byte(raw), &choices)
	}
	if index < 0 || index >= len(choices) {
		return f.expired(chatID)
	}
	return f.choose(ctx, chatID, choices[index])
}

// choose remembers the picked food and asks for the meal.
func (f *logFlow) choose(ctx context.Context, chatID int64, c choice) error {
	if c.Quantity <= 0 {
		c.Quantity = 1
	}
	f.states.SetTempData(chatID, state.KeyFoodID, c.FoodID)
	f.states.SetTempData(chatID, state.KeyServing, c.Serving)
	f.states.SetTempData(chatID, state.KeyQuantity, strconv.FormatFloat(c.Quantity, 'f', -1, 64))
	f.states.SetUserState(chatID, state.WaitingForMeal)

	def := domain.Breakfast
	if s, err := f.deps.Settings.Load(ctx); err == nil && s.DefaultMeal != "" {
		def = s.DefaultMeal
	}
	kb := keyboards.Meals(def)
	return menus.SendText(f.api, chatID, "Which meal?", &kb)
}

func (f *logFlow) chooseMeal(ctx context.Context, chatID int64, raw string) error {
	if f.states.GetUserState(chatID) != state.WaitingForMeal {
		return f.expired(chatID)
	}
	meal, err := domain.ParseMeal(raw)
	if err != nil {
		return f.expired(chatID)
	}
	food, label, qty, err := f.current(ctx, chatID)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	f.states.SetTempData(chatID, state.KeyMeal, string(meal))
	f.states.SetUserState(chatID, state.WaitingForAmount)

	suggested := describe(food, label, qty)
	text := fmt.Sprintf("How much %s? Send an amount like %q, or tap the suggestion.", food.Name, amountHint(food))
	kb := keyboards.Amount(suggested)
	return menus.SendText(f.api, chatID, text, &kb)
}

// logText logs the amount the owner typed.
func (f *logFlow) logText(ctx context.Context, chatID int64, text string) error {
	qty, label, err := utils.ParseAmount(text)
	if err != nil {
		return menus.SendText(f.api, chatID, "Send an amount like \"2 slices\" or \"150 g\".", nil)
	}
	food, stored, _, err := f.current(ctx, chatID)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	if label == "" {
		label = stored
	}
	serving, ok := resolveServing(food, label)
	if !ok {
		return menus.SendText(f.api, chatID, fmt.Sprintf("%s has no serving %q. Try one of: %s.", food.Name, label, servingList(food)), nil)
	}
	return f.commit(ctx, chatID, food, serving.Label, qty)
}

// logDefault logs the suggested serving.
func (f *logFlow) logDefault(ctx context.Context, chatID int64) error {
	if f.states.GetUserState(chatID) != state.WaitingForAmount {
		return f.expired(chatID)
	}
	food, label, qty, err := f.current(ctx, chatID)
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	return f.commit(ctx, chatID, food, label, qty)
}

func (f *logFlow) commit(ctx context.Context, chatID int64, food *domain.Food, label string, qty float64) error {
	meal, _ := f.states.GetTempData(chatID, state.KeyMeal)
	entry, err := f.deps.Diary.Log(ctx, services.LogInput{
		FoodID:          food.ID,
		Meal:            domain.Meal(meal),
		ServingLabel:    label,
		ServingQuantity: qty,
	})
	if err != nil {
		return f.fail(ctx, chatID, err)
	}
	state.Reset(f.states, chatID)
	logger.Info("Food logged", "entry_id", entry.ID, "food_id", food.ID, "meal", entry.Meal)

	text := fmt.Sprintf("✅ %s, %s added to %s.", food.Name, describe(food, label, qty), strings.ToLower(keyboards.MealTitle(entry.Meal)))
	if kcal, ok := food.Nutrients[nutrition.Energy]; ok {
		text += fmt.Sprintf("\n🔥 %s kcal", nutrition.FormatNumber(kcal*entry.Quantity()))
	}
	if day, err := f.deps.Diary.Day(ctx, entry.Day); err == nil {
		text += fmt.Sprintf("\n📅 Today so far: %s kcal", day.Totals.Format(nutrition.Energy))
	}
	kb := keyboards.Main(f.deps.photoEnabled())
	return menus.SendText(f.api, chatID, text, &kb)
}

// current loads the picked food and its suggested serving from chat state.
func (f *logFlow) current(ctx context.Context, chatID int64) (*domain.Food, string, float64, error) {
	id, ok := f.states.GetTempData(chatID, state.KeyFoodID)
	if !ok || id == "" {
		return nil, "", 0, apperrors.NewValidationError("Pick a food first.")
	}
	food, err := f.deps.Foods.Get(ctx, id)
	if err != nil {
		return nil, "", 0, err
	}
	label, _ := f.states.GetTempData(chatID, state.KeyServing)
	qty := 1.0
	if raw, ok := f.states.GetTempData(chatID, state.KeyQuantity); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			qty = v
		}
	}
	return food, label, qty, nil
}

func (f *logFlow) expired(chatID int64) error {
	state.Reset(f.states, chatID)
	kb := keyboards.Main(f.deps.photoEnabled())
	return menus.SendText(f.api, chatID, "That choice has expired. Start again from the menu.", &kb)
}

// fail reports err to the owner. Client errors show their message; the
// rest are logged and shown as a generic failure.
func (f *logFlow) fail(ctx context.Context, chatID int64, err error) error {
	text := "⚠️ " + apperrors.PublicMessage(err)
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeNotFound, apperrors.ErrorTypeConflict:
	default:
		logger.Error("Bot request failed", "chat_id", chatID, "error", err)
		text = "⚠️ Something went wrong. Please try again in a moment."
	}
	return menus.SendText(f.api, chatID, text, nil)
}

// resolveServing matches a typed label against the food's servings,
// accepting plurals ("slices").
func resolveServing(food *domain.Food, label string) (domain.Serving, bool) {
	if s, ok := food.FindServing(label); ok {
		return s, true
	}
	return food.FindServing(plural.Singular(strings.TrimSpace(label)))
}

func describe(food *domain.Food, label string, qty float64) string {
	serving, ok := food.FindServing(label)
	if !ok {
		serving = food.BaseServing()
	}
	return nutrition.FormatServing(serving.Label, qty, serving.Amount*qty, food.BaseUnit)
}

func amountHint(food *domain.Food) string {
	if s := food.DefaultServing(); s.Label != "" {
		return "2 " + plural.Plural(s.Label)
	}
	return "150 " + food.BaseUnit.Symbol()
}

func servingList(food *domain.Food) string {
	names := []string{food.BaseUnit.Symbol()}
	for _, s := range food.Servings {
		names = append(names, s.Label)
	}
	return strings.Join(names, ", ")
}

func parseIndex(data string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(data, keyboards.PickPrefix))
}
