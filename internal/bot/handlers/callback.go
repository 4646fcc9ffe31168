package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	flow         *logFlow
}

func NewCallbackHandler(api API, deps Dependencies, stateManager state.StateManager, flow *logFlow) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		flow:         flow,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback query first to stop the button spinner
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.Warn("Failed to answer callback query", "error", err)
	}

	chatID := query.Message.Chat.ID
	data := query.Data
	switch {
	case data == keyboards.MainMenu:
		state.Reset(h.stateManager, chatID)
		return menus.SendMainMenu(h.api, chatID, h.deps.photoEnabled())
	case data == keyboards.Today:
		return sendDay(ctx, h.api, h.flow, chatID, h.deps.Diary.Today())
	case data == keyboards.Search:
		return promptSearch(h.api, h.stateManager, chatID)
	case data == keyboards.Photo:
		return promptPhoto(h.api, h.deps, h.stateManager, chatID)
	case data == keyboards.Recent:
		return h.flow.recent(ctx, chatID)
	case data == keyboards.Streak:
		return sendStreak(ctx, h.api, h.flow, chatID)
	case data == keyboards.Goals:
		return sendGoals(ctx, h.api, h.flow, chatID)
	case data == keyboards.LogDefault:
		return h.flow.logDefault(ctx, chatID)
	case strings.HasPrefix(data, keyboards.PickPrefix):
		index, err := parseIndex(data)
		if err != nil {
			return h.flow.expired(chatID)
		}
		return h.flow.pick(ctx, chatID, index)
	case strings.HasPrefix(data, keyboards.MealPrefix):
		return h.flow.chooseMeal(ctx, chatID, strings.TrimPrefix(data, keyboards.MealPrefix))
	default:
		return h.flow.expired(chatID)
	}
}
