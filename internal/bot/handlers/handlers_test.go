package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/database"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
	"github.com/vladimiradmaev/calorie-tracker/internal/foodapi"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/repository"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
)

const owner = int64(1001)

type fakeAPI struct {
	sent    []tgbotapi.MessageConfig
	fileURL string
}

func (a *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		a.sent = append(a.sent, m)
	}
	return tgbotapi.Message{MessageID: len(a.sent)}, nil
}

func (a *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (a *fakeAPI) GetFileDirectURL(string) (string, error) {
	return a.fileURL, nil
}

func (a *fakeAPI) last(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	if len(a.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return a.sent[len(a.sent)-1]
}

type breadCatalog struct{}

func bread() *domain.Food {
	return &domain.Food{
		ID:        "p-bread",
		Name:      "Rye Bread",
		BaseUnit:  nutrition.Gram,
		Nutrients: nutrition.Values{nutrition.Energy: 2.5},
		Servings:  []domain.Serving{{Label: "slice", Amount: 30}},
	}
}

func (breadCatalog) Search(context.Context, string) []foodapi.Hit {
	return []foodapi.Hit{{Score: 0.9, Food: bread(), Serving: domain.Serving{Label: "slice", Amount: 30}, ServingQuantity: 1}}
}

func (breadCatalog) Detail(_ context.Context, id string) (*domain.Food, bool) {
	if id != "p-bread" {
		return nil, false
	}
	return bread(), true
}

type fakeEstimator struct{}

func (fakeEstimator) EstimateImage(context.Context, []byte, string) (*services.FoodEstimate, error) {
	return &services.FoodEstimate{Name: "Pasta", Weight: 300, Energy: 450, Protein: 15, Carbs: 80, Fat: 6, Confidence: "high"}, nil
}

func (e fakeEstimator) EstimateImageURL(ctx context.Context, imageURL string) (*services.FoodEstimate, error) {
	data, mime, err := services.DownloadImage(ctx, http.DefaultClient, imageURL)
	if err != nil {
		return nil, err
	}
	return e.EstimateImage(ctx, data, mime)
}

type fixture struct {
	api     *fakeAPI
	handler *UpdateHandler
	states  *state.Manager
	svcs    interfaces.Services
}

func newFixture(t *testing.T, withPhoto bool) *fixture {
	t.Helper()
	db, err := database.Open(config.DBConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	store := repository.NewStore(db)
	settingsStore := settings.NewDBStore(store.Settings)
	foods := services.NewFoodService(store, breadCatalog{})
	svcs := interfaces.Services{
		Foods:    foods,
		Diary:    services.NewDiaryService(store, foods, settingsStore, time.UTC),
		Streaks:  services.NewStreakService(store, time.UTC),
		Settings: services.NewSettingsService(settingsStore),
	}
	if withPhoto {
		svcs.Photo = services.NewPhotoEstimateService(fakeEstimator{}, foods)
	}

	api := &fakeAPI{}
	states := state.NewManager()
	return &fixture{
		api:     api,
		states:  states,
		svcs:    svcs,
		handler: NewUpdateHandler(api, Dependencies{Services: svcs, OwnerID: owner}, states),
	}
}

func message(from int64, text string) tgbotapi.Update {
	m := &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		cmd, _, _ := strings.Cut(text, " ")
		m.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: m}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: owner},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: owner}},
		Data:    data,
	}}
}

func (f *fixture) send(t *testing.T, u tgbotapi.Update) string {
	t.Helper()
	if err := f.handler.Handle(context.Background(), u); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	return f.api.last(t).Text
}

func TestStrangersAreTurnedAway(t *testing.T) {
	f := newFixture(t, false)
	if got := f.send(t, message(7, "bread")); got != "This bot is private." {
		t.Errorf("reply = %q", got)
	}
}

func TestSearchPickMealAmountLogsEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	if got := f.send(t, message(owner, "rye")); !strings.Contains(got, "1. Rye Bread") {
		t.Fatalf("search reply = %q", got)
	}
	if got := f.send(t, callback("pick:0")); got != "Which meal?" {
		t.Fatalf("pick reply = %q", got)
	}
	if got := f.send(t, callback("meal:lunch")); !strings.Contains(got, "How much Rye Bread?") {
		t.Fatalf("meal reply = %q", got)
	}
	got := f.send(t, message(owner, "2 slices"))
	if !strings.Contains(got, "Rye Bread, 2 slices (60 g) added to lunch") || !strings.Contains(got, "150 kcal") {
		t.Fatalf("log reply = %q", got)
	}
	if s := f.states.GetUserState(owner); s != state.None {
		t.Errorf("state after logging = %q", s)
	}

	day, err := f.svcs.Diary.Day(ctx, f.svcs.Diary.Today())
	if err != nil {
		t.Fatal(err)
	}
	if got := day.Totals.Amount(nutrition.Energy); got != 150 {
		t.Errorf("day energy = %v, want 150", got)
	}
}

func TestLogDefaultServing(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, message(owner, "/search rye"))
	f.send(t, callback("pick:0"))
	f.send(t, callback("meal:breakfast"))
	if got := f.send(t, callback("log_default")); !strings.Contains(got, "1 slice (30 g) added to breakfast") {
		t.Errorf("reply = %q", got)
	}
}

func TestUnknownServingIsRejected(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, message(owner, "rye"))
	f.send(t, callback("pick:0"))
	f.send(t, callback("meal:dinner"))
	got := f.send(t, message(owner, "3 cups"))
	if !strings.Contains(got, `no serving "cups"`) || !strings.Contains(got, "g, slice") {
		t.Errorf("reply = %q", got)
	}
	if s := f.states.GetUserState(owner); s != state.WaitingForAmount {
		t.Errorf("state = %q, want to keep waiting for the amount", s)
	}
}

func TestStaleCallbackExpires(t *testing.T) {
	f := newFixture(t, false)
	if got := f.send(t, callback("pick:3")); !strings.Contains(got, "expired") {
		t.Errorf("reply = %q", got)
	}
	if got := f.send(t, callback("meal:lunch")); !strings.Contains(got, "expired") {
		t.Errorf("reply = %q", got)
	}
}

func TestSetGoalCommand(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	if got := f.send(t, message(owner, "/setgoal sodium 1500")); !strings.Contains(got, "Sodium: 1500 mg") {
		t.Errorf("reply = %q", got)
	}
	s, err := f.svcs.Settings.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if g, _ := s.Goal(nutrition.Sodium); g != 1.5 {
		t.Errorf("sodium goal = %v g", g)
	}

	if got := f.send(t, message(owner, "/setgoal caffeine 1")); !strings.Contains(got, "Unknown nutrient") {
		t.Errorf("reply = %q", got)
	}
}

func TestMicrosCommandTogglesDayText(t *testing.T) {
	f := newFixture(t, false)
	f.send(t, message(owner, "/setgoal sodium 1500"))

	if got := f.send(t, message(owner, "/today")); strings.Contains(got, "Minerals") {
		t.Errorf("minerals shown by default:\n%s", got)
	}

	if got := f.send(t, message(owner, "/micros on")); !strings.Contains(got, "will show") {
		t.Errorf("reply = %q", got)
	}
	if got := f.send(t, message(owner, "/today")); !strings.Contains(got, "Minerals\nSodium: 0 / 1500 mg (0%)") {
		t.Errorf("today = %s", got)
	}

	f.send(t, message(owner, "/micros off"))
	if got := f.send(t, message(owner, "/today")); strings.Contains(got, "Sodium") {
		t.Errorf("minerals still shown:\n%s", got)
	}
	if got := f.send(t, message(owner, "/micros maybe")); !strings.Contains(got, "Usage") {
		t.Errorf("reply = %q", got)
	}
}

func TestNutrientByName(t *testing.T) {
	tests := map[string]nutrition.Nutrient{
		"kcal":          nutrition.Energy,
		"Protein":       nutrition.Protein,
		"carbs":         nutrition.Carbohydrate,
		"calcium":       nutrition.Calcium,
		"vitamin.d":     nutrition.VitaminD,
		"Saturated fat": nutrition.SaturatedFat,
	}
	for name, want := range tests {
		if got, ok := nutrientByName(name); !ok || got != want {
			t.Errorf("nutrientByName(%q) = %q %v, want %q", name, got, ok, want)
		}
	}
	if _, ok := nutrientByName("caffeine"); ok {
		t.Error("caffeine should be unknown")
	}
}

func TestPhotoEstimateFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer srv.Close()

	f := newFixture(t, true)
	f.api.fileURL = srv.URL

	u := message(owner, "")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	if got := f.send(t, u); got != "Which meal?" {
		t.Fatalf("reply = %q", got)
	}
	estimate := f.api.sent[len(f.api.sent)-2]
	if !strings.Contains(estimate.Text, "*Pasta*") || estimate.ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("estimate message = %+v", estimate)
	}

	f.send(t, callback("meal:dinner"))
	if got := f.send(t, callback("log_default")); !strings.Contains(got, "Pasta, 1 portion (300 g) added to dinner") {
		t.Errorf("reply = %q", got)
	}
}

func TestPhotoDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := newFixture(t, true)
	f.api.fileURL = srv.URL

	u := message(owner, "")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "gone"}}
	if got := f.send(t, u); !strings.Contains(got, "Something went wrong") {
		t.Errorf("reply = %q", got)
	}
	if st := f.states.GetUserState(owner); st != state.None {
		t.Errorf("state = %v, want none", st)
	}
}

func TestPhotoWithoutEstimator(t *testing.T) {
	f := newFixture(t, false)
	u := message(owner, "")
	u.Message.Photo = []tgbotapi.PhotoSize{{FileID: "x"}}
	if got := f.send(t, u); !strings.Contains(got, "not configured") {
		t.Errorf("reply = %q", got)
	}
}
