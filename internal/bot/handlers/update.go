package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             API
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

func NewUpdateHandler(api API, deps Dependencies, stateManager state.StateManager) *UpdateHandler {
	flow := newLogFlow(api, deps, stateManager)
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		callbackHandler: NewCallbackHandler(api, deps, stateManager, flow),
		commandHandler:  NewCommandHandler(api, deps, stateManager, flow),
		textHandler:     NewTextHandler(api, deps, stateManager, flow),
		photoHandler:    NewPhotoHandler(api, deps, stateManager, flow),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	var chatID int64
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		from = update.CallbackQuery.From
		chatID = update.CallbackQuery.Message.Chat.ID
	case update.Message != nil:
		from = update.Message.From
		chatID = update.Message.Chat.ID
	default:
		return nil
	}

	if from == nil || from.ID != h.deps.OwnerID {
		logger.Warn("Ignoring update from stranger", "user_id", userID(from), "chat_id", chatID)
		return menus.SendText(h.api, chatID, "This bot is private.", nil)
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	}

	message := update.Message
	switch {
	case message.IsCommand():
		return h.commandHandler.Handle(ctx, message)
	case len(message.Photo) > 0:
		return h.photoHandler.Handle(ctx, message)
	case message.Text != "":
		return h.textHandler.Handle(ctx, message)
	}
	return nil
}

func userID(u *tgbotapi.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
