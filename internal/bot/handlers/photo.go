package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
)

// PhotoHandler handles photo messages
type PhotoHandler struct {
	api          API
	deps         Dependencies
	stateManager state.StateManager
	flow         *logFlow
}

func NewPhotoHandler(api API, deps Dependencies, stateManager state.StateManager, flow *logFlow) *PhotoHandler {
	return &PhotoHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
		flow:         flow,
	}
}

// Handle estimates the photographed meal and continues with the meal choice.
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	if !h.deps.photoEnabled() {
		return menus.SendText(h.api, chatID, "Photo estimates are not configured. Send a food name instead.", nil)
	}

	// The last size is the largest
	photo := message.Photo[len(message.Photo)-1]
	url, err := h.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	processing, err := h.api.Send(tgbotapi.NewMessage(chatID, "Looking at your meal..."))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}
	defer func() {
		if _, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, processing.MessageID)); err != nil {
			logger.Debug("Failed to delete processing message", "error", err)
		}
	}()

	est, err := h.deps.Photo.EstimateURL(ctx, url)
	if err != nil {
		return h.flow.fail(ctx, chatID, err)
	}
	logger.Info("Photo estimated", "food_id", est.Food.ID, "weight", est.Estimate.Weight, "confidence", est.Confidence)

	msg := tgbotapi.NewMessage(chatID, menus.EstimateText(est))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.api.Send(msg); err != nil {
		// Retry without Markdown if the model's text broke the markup
		msg.ParseMode = ""
		if _, err := h.api.Send(msg); err != nil {
			return fmt.Errorf("failed to send estimate: %w", err)
		}
	}

	state.Reset(h.stateManager, chatID)
	return h.flow.choose(ctx, chatID, choice{
		FoodID:   est.Food.ID,
		Label:    est.Food.Name,
		Serving:  services.PortionLabel,
		Quantity: 1,
	})
}
