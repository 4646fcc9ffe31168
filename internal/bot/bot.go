// Package bot is the Telegram front end of the tracker.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/handlers"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/state"
	"github.com/vladimiradmaev/calorie-tracker/internal/config"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
	"github.com/vladimiradmaev/calorie-tracker/internal/logger"
)

type Bot struct {
	api     *tgbotapi.BotAPI
	handler *handlers.UpdateHandler
}

func NewBot(cfg config.TelegramConfig, svcs interfaces.Services, states state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot authorized", "account", api.Self.UserName)
	deps := handlers.Dependencies{Services: svcs, OwnerID: cfg.OwnerID}
	return &Bot{
		api:     api,
		handler: handlers.NewUpdateHandler(api, deps, states),
	}, nil
}

func (b *Bot) Name() string { return "telegram" }

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				logger.Error("Error handling update", "update_id", update.UpdateID, "error", err)
			}
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
