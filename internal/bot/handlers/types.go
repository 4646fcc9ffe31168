package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/interfaces"
)

// API is the subset of *tgbotapi.BotAPI the handlers call.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	interfaces.Services
	// OwnerID is the only Telegram user the bot answers.
	OwnerID int64
}

func (d Dependencies) photoEnabled() bool {
	return d.Photo != nil
}
