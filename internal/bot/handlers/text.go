package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
)

// TextHandler handles text messages
type TextHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	flow         *logFlow
}

func NewTextHandler(api API, deps Dependencies, stateManager state.StateManager, flow *logFlow) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		flow:         flow,
	}
}

// Handle processes a text message. Outside of a step, text is a search.
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch h.stateManager.GetUserState(chatID) {
	case state.WaitingForAmount:
		return h.flow.logText(ctx, chatID, message.Text)
	case state.WaitingForMeal:
		return menus.SendText(h.api, chatID, "Pick a meal with the buttons above, or /cancel.", nil)
	case state.WaitingForPhoto:
		return menus.SendText(h.api, chatID, "Send a photo, or /cancel.", nil)
	default:
		return h.flow.search(ctx, chatID, message.Text)
	}
}
