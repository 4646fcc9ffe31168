package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/utils"
)

const helpText = `Commands:
/start - main menu
/today [yesterday|YYYY-MM-DD] - what you ate
/search <food> - find a food to log
/recent - favorites and recently logged foods
/streak - days in a row with something logged
/goals - your daily goals
/setgoal <nutrient> <value> - change a goal, 0 clears it
/micros on|off - show minerals and vitamins in /today
/photo - estimate a meal from a photo
/cancel - stop the current step

You can also just send a food name to search for it.`

var nutrientAliases = map[string]nutrition.Nutrient{
	"calories": nutrition.Energy,
	"kcal":     nutrition.Energy,
	"carbs":    nutrition.Carbohydrate,
	"carb":     nutrition.Carbohydrate,
}

// CommandHandler handles bot commands
type CommandHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	flow         *logFlow
}

func NewCommandHandler(api API, deps Dependencies, stateManager state.StateManager, flow *logFlow) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		flow:         flow,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	logger.Debug("Handling command", "command", message.Command(), "chat_id", chatID)

	switch message.Command() {
	case "start":
		state.Reset(h.stateManager, chatID)
		return menus.SendMainMenu(h.api, chatID, h.deps.photoEnabled())
	case "help":
		return menus.SendText(h.api, chatID, helpText, nil)
	case "cancel":
		state.Reset(h.stateManager, chatID)
		kb := keyboards.Main(h.deps.photoEnabled())
		return menus.SendText(h.api, chatID, "Cancelled.", &kb)
	case "today":
		return h.handleDay(ctx, chatID, args)
	case "search":
		if args == "" {
			return promptSearch(h.api, h.stateManager, chatID)
		}
		return h.flow.search(ctx, chatID, args)
	case "recent":
		return h.flow.recent(ctx, chatID)
	case "streak":
		return sendStreak(ctx, h.api, h.flow, chatID)
	case "goals":
		return sendGoals(ctx, h.api, h.flow, chatID)
	case "setgoal":
		return h.handleSetGoal(ctx, chatID, args)
	case "micros":
		return h.handleMicros(ctx, chatID, args)
	case "photo":
		return promptPhoto(h.api, h.deps, h.stateManager, chatID)
	default:
		return menus.SendText(h.api, chatID, "Unknown command. Use /help to see what I can do.", nil)
	}
}

func (h *CommandHandler) handleDay(ctx context.Context, chatID int64, arg string) error {
	day := h.deps.Diary.Today()
	switch strings.ToLower(arg) {
	case "", "today":
	case "yesterday":
		day = day.AddDays(-1)
	default:
		d, err := calendar.ParseDay(arg)
		if err != nil {
			return menus.SendText(h.api, chatID, "Use a date like 2024-03-10.", nil)
		}
		day = d
	}
	return sendDay(ctx, h.api, h.flow, chatID, day)
}

func (h *CommandHandler) handleMicros(ctx context.Context, chatID int64, arg string) error {
	var show bool
	switch strings.ToLower(arg) {
	case "on":
		show = true
	case "off":
	default:
		return menus.SendText(h.api, chatID, "Usage: /micros on or /micros off", nil)
	}
	cfg, err := h.deps.Settings.Load(ctx)
	if err != nil {
		return h.flow.fail(ctx, chatID, err)
	}
	cfg.ShowMicronutrients = show
	if _, err := h.deps.Settings.Save(ctx, cfg); err != nil {
		return h.flow.fail(ctx, chatID, err)
	}
	if show {
		return menus.SendText(h.api, chatID, "Minerals and vitamins will show in /today.", nil)
	}
	return menus.SendText(h.api, chatID, "Minerals and vitamins are hidden.", nil)
}

func (h *CommandHandler) handleSetGoal(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return menus.SendText(h.api, chatID, "Usage: /setgoal <nutrient> <value>, e.g. /setgoal protein 120", nil)
	}
	n, ok := nutrientByName(fields[0])
	if !ok {
		return h.flow.fail(ctx, chatID, apperrors.NewValidationError("Unknown nutrient "+fields[0]+"."))
	}
	value, err := utils.ParseNumber(fields[1])
	if err != nil {
		return h.flow.fail(ctx, chatID, apperrors.NewValidationError("The goal must be a number."))
	}
	s, err := h.deps.Settings.SetGoal(ctx, n, value)
	if err != nil {
		return h.flow.fail(ctx, chatID, err)
	}
	return menus.SendText(h.api, chatID, menus.GoalsText(s), nil)
}

// nutrientByName accepts a catalog key, a label or a common alias.
func nutrientByName(name string) (nutrition.Nutrient, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if n, ok := nutrientAliases[name]; ok {
		return n, true
	}
	for _, info := range nutrition.Catalog() {
		if string(info.Key) == name || strings.ToLower(info.Label) == name {
			return info.Key, true
		}
		if _, short, ok := strings.Cut(string(info.Key), "."); ok && short == name {
			return info.Key, true
		}
	}
	return "", false
}

func promptSearch(api API, states state.StateManager, chatID int64) error {
	state.Reset(states, chatID)
	states.SetUserState(chatID, state.WaitingForSearch)
	kb := keyboards.Back()
	return menus.SendText(api, chatID, "What did you eat? Send a food name.", &kb)
}

func promptPhoto(api API, deps Dependencies, states state.StateManager, chatID int64) error {
	if !deps.photoEnabled() {
		return menus.SendText(api, chatID, "Photo estimates are not configured.", nil)
	}
	state.Reset(states, chatID)
	states.SetUserState(chatID, state.WaitingForPhoto)
	kb := keyboards.Back()
	return menus.SendText(api, chatID, "📷 Send a photo of your meal. Shoot the whole plate in good light.", &kb)
}

func sendDay(ctx context.Context, api API, flow *logFlow, chatID int64, day calendar.Day) error {
	summary, err := flow.deps.Diary.Day(ctx, day)
	if err != nil {
		return flow.fail(ctx, chatID, err)
	}
	cfg, err := flow.deps.Settings.Load(ctx)
	if err != nil {
		return flow.fail(ctx, chatID, err)
	}
	kb := keyboards.Main(flow.deps.photoEnabled())
	return menus.SendText(api, chatID, menus.DayText(summary, cfg), &kb)
}

func sendStreak(ctx context.Context, api API, flow *logFlow, chatID int64) error {
	summary, err := flow.deps.Streaks.Summary(ctx)
	if err != nil {
		return flow.fail(ctx, chatID, err)
	}
	kb := keyboards.Back()
	return menus.SendText(api, chatID, menus.StreakText(summary), &kb)
}

func sendGoals(ctx context.Context, api API, flow *logFlow, chatID int64) error {
	s, err := flow.deps.Settings.Load(ctx)
	if err != nil {
		return flow.fail(ctx, chatID, err)
	}
	kb := keyboards.Back()
	return menus.SendText(api, chatID, menus.GoalsText(s), &kb)
}
