package keyboards

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
)

// Callback data
const (
	Today      = "today"
	Search     = "search"
	Photo      = "photo"
	Recent     = "recent"
	Streak     = "streak"
	Goals      = "goals"
	MainMenu   = "main_menu"
	LogDefault = "log_default"

	PickPrefix = "pick:"
	MealPrefix = "meal:"
)

// maxButtonText keeps long product names from wrapping into several lines.
const maxButtonText = 40

// Main creates the main menu keyboard. The photo button is only shown
// when photo estimates are configured.
func Main(photo bool) tgbotapi.InlineKeyboardMarkup {
	first := tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔎 Add food", Search),
	)
	if photo {
		first = append(first, tgbotapi.NewInlineKeyboardButtonData("📷 From photo", Photo))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		first,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Today", Today),
			tgbotapi.NewInlineKeyboardButtonData("🕘 Recent", Recent),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔥 Streak", Streak),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Goals", Goals),
		),
	)
}

// Back is a single button returning to the main menu.
func Back() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenu),
		),
	)
}

// Choices lists foods to pick from, one per row.
func Choices(labels []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(labels)+1)
	for i, label := range labels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate(label), fmt.Sprintf("%s%d", PickPrefix, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", MainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Meals asks for the meal slot, marking the default one.
func Meals(def domain.Meal) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range domain.Meals() {
		text := MealTitle(m)
		if m == def {
			text = "✅ " + text
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(text, MealPrefix+string(m)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row[:2],
		row[2:],
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", MainMenu),
		),
	)
}

// Amount offers logging the suggested serving in one tap.
func Amount(suggested string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(truncate("✅ "+suggested), LogDefault),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", MainMenu),
		),
	)
}

func MealTitle(m domain.Meal) string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxButtonText {
		return s
	}
	return string(r[:maxButtonText-1]) + "…"
}
