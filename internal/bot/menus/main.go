package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/calorie-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/calorie-tracker/internal/nutrition"
	"github.com/vladimiradmaev/calorie-tracker/internal/services"
	"github.com/vladimiradmaev/calorie-tracker/internal/settings"
	"github.com/vladimiradmaev/calorie-tracker/internal/streak"
)

// Sender is the part of the bot API the menus need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64, photo bool) error {
	text := `🥗 *Calorie tracker*

Log what you eat and keep an eye on your goals.

• Send a food name to search for it
• /today shows what you ate today
• /streak shows how many days in a row you logged`
	if photo {
		text += "\n• Send a photo of a meal for an estimate"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.Main(photo)
	_, err := api.Send(msg)
	return err
}

// SendText sends plain text, optionally with a keyboard.
func SendText(api Sender, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, strings.ToValidUTF8(text, ""))
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	_, err := api.Send(msg)
	return err
}

var microGroups = []struct {
	title string
	group nutrition.Group
}{
	{"Minerals", nutrition.GroupMineral},
	{"Vitamins", nutrition.GroupVitamin},
}

// DayText renders a day summary grouped by meal. Minerals and vitamins that
// have a value or a goal are listed when cfg.ShowMicronutrients is set.
func DayText(s *services.DaySummary, cfg settings.Settings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s\n", s.Day.Time().Format("Monday, 2 Jan 2006"))

	logged := 0
	for _, m := range s.Meals {
		if len(m.Entries) == 0 {
			continue
		}
		logged += len(m.Entries)
		fmt.Fprintf(&b, "\n%s: %s kcal\n", keyboards.MealTitle(m.Meal), m.Totals.Format(nutrition.Energy))
		for _, e := range m.Entries {
			fmt.Fprintf(&b, "• %s, %s: %s kcal\n", e.Food.Name, e.Serving, nutrition.FormatNumber(e.Energy))
		}
	}
	if logged == 0 {
		b.WriteString("\nNothing logged yet.\n")
	}

	goals := make(map[nutrition.Nutrient]services.GoalProgress, len(s.Goals))
	for _, g := range s.Goals {
		goals[g.Nutrient] = g
	}
	b.WriteString("\n")
	for _, n := range nutrition.Macros() {
		b.WriteString(nutrientLine(n, s.Totals, goals))
	}
	if cfg.ShowMicronutrients {
		for _, group := range microGroups {
			var lines []string
			for _, n := range nutrition.InGroup(group.group) {
				_, hasGoal := goals[n]
				if !s.Totals[n].Reported && !hasGoal {
					continue
				}
				lines = append(lines, nutrientLine(n, s.Totals, goals))
			}
			if len(lines) > 0 {
				fmt.Fprintf(&b, "\n%s\n%s", group.title, strings.Join(lines, ""))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func nutrientLine(n nutrition.Nutrient, totals nutrition.Totals, goals map[nutrition.Nutrient]services.GoalProgress) string {
	info, _ := nutrition.Lookup(n)
	if g, ok := goals[n]; ok {
		return fmt.Sprintf("%s: %s / %s %s (%s%%)\n", info.Label,
			nutrition.FormatNumber(g.Consumed), nutrition.FormatNumber(g.Goal), info.Unit,
			nutrition.FormatNumber(g.Percent))
	}
	return fmt.Sprintf("%s: %s\n", info.Label, totals.FormatWithUnit(n))
}

// SearchText renders search results as a numbered list.
func SearchText(query string, results []services.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("Nothing found for %q. Try another name.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q:\n", query)
	for i, r := range results {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, ChoiceLabel(r))
		if kcal, ok := r.Food.Nutrients[nutrition.Energy]; ok {
			amount := r.Serving.Amount * r.ServingQuantity
			fmt.Fprintf(&b, "   %s: %s kcal\n",
				nutrition.FormatServing(r.Serving.Label, r.ServingQuantity, amount, r.Food.BaseUnit),
				nutrition.FormatNumber(kcal*amount))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// ChoiceLabel names a search result on its button.
func ChoiceLabel(r services.SearchResult) string {
	name := r.Food.Name
	if r.Food.Producer != nil && *r.Food.Producer != "" {
		name += " (" + *r.Food.Producer + ")"
	}
	if r.Source == services.SourceCustom {
		name = "⭐ " + name
	}
	return name
}

func StreakText(s streak.Summary) string {
	if s.Current == 0 {
		return fmt.Sprintf("No active streak. Log something today to start one.\nLongest streak: %d", s.Longest)
	}
	return fmt.Sprintf("🔥 Current streak: %d\n🏆 Longest streak: %d", s.Current, s.Longest)
}

// GoalsText lists the configured goals in display units.
func GoalsText(s settings.Settings) string {
	var b strings.Builder
	b.WriteString("🎯 Daily goals\n\n")
	set := false
	for _, info := range nutrition.Catalog() {
		g, ok := s.Goal(info.Key)
		if !ok {
			continue
		}
		set = true
		fmt.Fprintf(&b, "%s: %s\n", info.Label, nutrition.FormatNutrient(info.Key, nutrition.ToDisplay(info.Key, g)))
	}
	if !set {
		b.WriteString("No goals set.\n")
	}
	b.WriteString("\nChange one with /setgoal <nutrient> <value>, e.g. /setgoal protein 120")
	return b.String()
}

// EstimateText describes a photo estimate in Markdown.
func EstimateText(e *services.PhotoEstimate) string {
	est := e.Estimate
	text := fmt.Sprintf("🍽️ *%s*\n\n"+
		"⚖️ *Weight:* %s g\n"+
		"🔥 *Energy:* %s kcal\n"+
		"🥩 *Protein:* %s g\n"+
		"🍞 *Carbohydrates:* %s g\n"+
		"🧈 *Fat:* %s g\n"+
		"🎯 *Confidence:* %s",
		EscapeMarkdown(e.Food.Name),
		nutrition.FormatNumber(est.Weight),
		nutrition.FormatNumber(est.Energy),
		nutrition.FormatNumber(est.Protein),
		nutrition.FormatNumber(est.Carbs),
		nutrition.FormatNumber(est.Fat),
		EscapeMarkdown(e.Confidence),
	)
	if est.AnalysisText != "" {
		text += "\n\n📊 *How it was estimated:*\n" + truncate(EscapeMarkdown(est.AnalysisText), 900)
	}
	return strings.ToValidUTF8(text, "")
}

// EscapeMarkdown escapes the characters legacy Markdown treats as markup.
func EscapeMarkdown(s string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "`", "\\`")
	return r.Replace(s)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
