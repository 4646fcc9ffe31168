package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/repository"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
)

// LogInput describes one food eaten. An empty Day means today and an
// empty ServingLabel means one base unit per serving.
type LogInput struct {
	FoodID          string       `json:"food_id"`
	Meal            domain.Meal  `json:"meal"`
	Day             calendar.Day `json:"day"`
	ServingLabel    string       `json:"serving_label"`
	ServingQuantity float64      `json:"serving_quantity"`
}

// EntryUpdate changes an entry. Nil fields are left alone.
type EntryUpdate struct {
	Meal            *domain.Meal  `json:"meal,omitempty"`
	Day             *calendar.Day `json:"day,omitempty"`
	ServingLabel    *string       `json:"serving_label,omitempty"`
	ServingQuantity *float64      `json:"serving_quantity,omitempty"`
}

// EntryView is a logged entry resolved against its food.
type EntryView struct {
	domain.MealEntry
	Food    *domain.Food `json:"food"`
	Amount  float64      `json:"amount"`
	Serving string       `json:"serving_text"`
	Energy  float64      `json:"energy"`
}

type MealSummary struct {
	Meal    domain.Meal      `json:"meal"`
	Entries []EntryView      `json:"entries"`
	Totals  nutrition.Totals `json:"totals"`
}

// GoalProgress compares a day's total with its goal, both in display units.
type GoalProgress struct {
	Nutrient nutrition.Nutrient `json:"nutrient"`
	Label    string             `json:"label"`
	Unit     nutrition.Unit     `json:"unit"`
	Goal     float64            `json:"goal"`
	Consumed float64            `json:"consumed"`
	Percent  float64            `json:"percent"`
}

type DaySummary struct {
	Day    calendar.Day     `json:"day"`
	Meals  []MealSummary    `json:"meals"`
	Totals nutrition.Totals `json:"totals"`
	Goals  []GoalProgress   `json:"goals"`
}

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Day     calendar.Day `json:"day"`
	Logged  bool         `json:"logged"`
	Entries int          `json:"entries"`
	Energy  float64      `json:"energy"`
	GoalMet bool         `json:"goal_met"`
}

type DiaryService struct {
	store    *repository.Store
	foods    *FoodService
	settings settings.Store
	loc      *time.Location
	now      func() time.Time
	log      *slog.Logger
}

func NewDiaryService(store *repository.Store, foods *FoodService, settingsStore settings.Store, loc *time.Location) *DiaryService {
	if loc == nil {
		loc = time.Local
	}
	return &DiaryService{
		store:    store,
		foods:    foods,
		settings: settingsStore,
		loc:      loc,
		now:      time.Now,
		log:      logger.Component("diary_service"),
	}
}

// SetClock replaces the time source (for testing).
func (s *DiaryService) SetClock(now func() time.Time) {
	s.now = now
}

// Today is the current calendar day in the configured time zone.
func (s *DiaryService) Today() calendar.Day {
	return calendar.Today(s.now().In(s.loc))
}

// Log records an entry, marks its day for the streak and counts the food
// as used, all in one transaction.
func (s *DiaryService) Log(ctx context.Context, in LogInput) (*domain.MealEntry, error) {
	meal, err := domain.ParseMeal(string(in.Meal))
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	day := in.Day
	if day == "" {
		day = s.Today()
	}
	if !day.Valid() {
		return nil, apperrors.NewValidationError("invalid day " + string(in.Day))
	}
	if in.ServingQuantity <= 0 {
		return nil, apperrors.NewValidationError("serving quantity must be positive")
	}

	food, err := s.foods.Get(ctx, in.FoodID)
	if err != nil {
		return nil, err
	}
	if food.IsDeleted {
		return nil, apperrors.NewValidationError("food " + food.Name + " was deleted")
	}
	serving, ok := food.FindServing(in.ServingLabel)
	if !ok {
		return nil, apperrors.NewValidationError("unknown serving " + in.ServingLabel)
	}

	entry := &domain.MealEntry{
		FoodID:          food.ID,
		Meal:            meal,
		Day:             day,
		ServingLabel:    serving.Label,
		ServingAmount:   serving.Amount,
		ServingQuantity: in.ServingQuantity,
	}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Diary.Create(ctx, entry); err != nil {
			return err
		}
		if err := tx.Streaks.MarkDay(ctx, day); err != nil {
			return err
		}
		return tx.Usage.Touch(ctx, food.ID, s.now())
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	s.log.Info("Logged food", "entry_id", entry.ID, "food_id", food.ID, "meal", meal, "day", day)
	return entry, nil
}

func (s *DiaryService) GetEntry(ctx context.Context, id string) (*domain.MealEntry, error) {
	e, err := s.store.Diary.Get(ctx, id)
	if repository.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("entry", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return e, nil
}

// UpdateEntry changes the meal, day or serving of an entry. Moving an entry
// to another day marks that day; the old day keeps its marker.
func (s *DiaryService) UpdateEntry(ctx context.Context, id string, upd EntryUpdate) (*domain.MealEntry, error) {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Meal != nil {
		meal, err := domain.ParseMeal(string(*upd.Meal))
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		entry.Meal = meal
	}
	if upd.Day != nil {
		if !upd.Day.Valid() {
			return nil, apperrors.NewValidationError("invalid day " + string(*upd.Day))
		}
		entry.Day = *upd.Day
	}
	if upd.ServingQuantity != nil {
		if *upd.ServingQuantity <= 0 {
			return nil, apperrors.NewValidationError("serving quantity must be positive")
		}
		entry.ServingQuantity = *upd.ServingQuantity
	}
	if upd.ServingLabel != nil {
		food, err := s.foods.Get(ctx, entry.FoodID)
		if err != nil {
			return nil, err
		}
		serving, ok := food.FindServing(*upd.ServingLabel)
		if !ok {
			return nil, apperrors.NewValidationError("unknown serving " + *upd.ServingLabel)
		}
		entry.ServingLabel = serving.Label
		entry.ServingAmount = serving.Amount
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Diary.Update(ctx, entry); err != nil {
			return err
		}
		return tx.Streaks.MarkDay(ctx, entry.Day)
	})
	if repository.IsNotFound(err) {
		return nil, apperrors.NewNotFoundError("entry", id)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.GetEntry(ctx, id)
}

// DeleteEntry removes an entry. Streak markers are never removed.
func (s *DiaryService) DeleteEntry(ctx context.Context, id string) error {
	err := s.store.Diary.Delete(ctx, id)
	if repository.IsNotFound(err) {
		return apperrors.NewNotFoundError("entry", id)
	}
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	s.log.Info("Deleted entry", "entry_id", id)
	return nil
}

// Day summarizes a day: entries grouped by meal, totals per meal and for
// the day, and progress towards the configured goals.
func (s *DiaryService) Day(ctx context.Context, day calendar.Day) (*DaySummary, error) {
	if day == "" {
		day = s.Today()
	}
	if !day.Valid() {
		return nil, apperrors.NewValidationError("invalid day " + string(day))
	}

	entries, err := s.store.Diary.ListByDay(ctx, day)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	views, err := s.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	summary := &DaySummary{Day: day, Totals: nutrition.NewTotals()}
	for _, meal := range domain.Meals() {
		ms := MealSummary{Meal: meal, Entries: []EntryView{}}
		var amounts []nutrition.LoggedFoodAmount
		for _, v := range views {
			if v.Meal != meal {
				continue
			}
			ms.Entries = append(ms.Entries, v)
			amounts = append(amounts, nutrition.LoggedFoodAmount{Nutrients: v.Food.Nutrients, Quantity: v.Amount})
		}
		ms.Totals = nutrition.Aggregate(amounts)
		summary.Totals = summary.Totals.Add(ms.Totals)
		summary.Meals = append(summary.Meals, ms)
	}
	summary.Goals = goalProgress(cfg, summary.Totals)
	return summary, nil
}

func goalProgress(cfg settings.Settings, totals nutrition.Totals) []GoalProgress {
	var out []GoalProgress
	for _, info := range nutrition.Catalog() {
		goal, ok := cfg.Goal(info.Key)
		if !ok {
			continue
		}
		consumed := totals.Amount(info.Key)
		out = append(out, GoalProgress{
			Nutrient: info.Key,
			Label:    info.Label,
			Unit:     info.Unit,
			Goal:     nutrition.ToDisplay(info.Key, goal),
			Consumed: nutrition.ToDisplay(info.Key, consumed),
			Percent:  nutrition.Progress(goal, consumed),
		})
	}
	return out
}

// resolve loads the foods behind entries. Entries whose food row is gone
// are skipped and logged.
func (s *DiaryService) resolve(ctx context.Context, entries []domain.MealEntry) ([]EntryView, error) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.FoodID)
	}
	foods, err := s.store.Foods.GetMany(ctx, ids)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		f, ok := foods[e.FoodID]
		if !ok {
			s.log.Warn("Entry references a missing food", "entry_id", e.ID, "food_id", e.FoodID)
			continue
		}
		amount := e.Quantity()
		views = append(views, EntryView{
			MealEntry: e,
			Food:      f,
			Amount:    amount,
			Serving:   nutrition.FormatServing(e.ServingLabel, e.ServingQuantity, amount, f.BaseUnit),
			Energy:    f.Nutrients[nutrition.Energy] * amount,
		})
	}
	return views, nil
}

// Calendar returns one cell per day of month.
func (s *DiaryService) Calendar(ctx context.Context, month calendar.Month) ([]CalendarDay, error) {
	if month == "" {
		month = calendar.MonthOf(s.now().In(s.loc))
	}
	first, last := month.First(), month.Last()
	if !first.Valid() {
		return nil, apperrors.NewValidationError("invalid month " + string(month))
	}

	entries, err := s.store.Diary.ListRange(ctx, first, last)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	views, err := s.resolve(ctx, entries)
	if err != nil {
		return nil, err
	}
	marked, err := s.store.Streaks.ListInRange(ctx, first, last)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	logged := make(map[calendar.Day]bool, len(marked))
	for _, d := range marked {
		logged[d] = true
	}
	energy := make(map[calendar.Day]float64)
	counts := make(map[calendar.Day]int)
	for _, v := range views {
		energy[v.Day] += v.Energy
		counts[v.Day]++
	}

	goal, hasGoal := cfg.Goal(nutrition.Energy)
	days := month.Days()
	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, CalendarDay{
			Day:     d,
			Logged:  logged[d],
			Entries: counts[d],
			Energy:  energy[d],
			GoalMet: hasGoal && counts[d] > 0 && energy[d] <= goal,
		})
	}
	return out, nil
}
