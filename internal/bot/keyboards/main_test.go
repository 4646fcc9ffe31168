package keyboards

import (
	"strings"
	"testing"

	"github.com/vladimiradmaev/calorie-tracker/internal/domain"
)

func TestMainHidesPhotoWhenDisabled(t *testing.T) {
	for _, photo := range []bool{true, false} {
		kb := Main(photo)
		found := false
		for _, row := range kb.InlineKeyboard {
			for _, b := range row {
				if b.CallbackData != nil && *b.CallbackData == Photo {
					found = true
				}
			}
		}
		if found != photo {
			t.Errorf("Main(%v) photo button present = %v", photo, found)
		}
	}
}

func TestChoicesIndexesRows(t *testing.T) {
	long := strings.Repeat("x", 80)
	kb := Choices([]string{"Rye Bread", long})
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want 3", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[1][0].CallbackData; got != "pick:1" {
		t.Errorf("callback = %q", got)
	}
	if n := len([]rune(kb.InlineKeyboard[1][0].Text)); n != maxButtonText {
		t.Errorf("button text length = %d, want %d", n, maxButtonText)
	}
}

func TestMealsMarksDefault(t *testing.T) {
	kb := Meals(domain.Dinner)
	var marked []string
	for _, row := range kb.InlineKeyboard[:2] {
		for _, b := range row {
			if strings.HasPrefix(b.Text, "✅") {
				marked = append(marked, *b.CallbackData)
			}
		}
	}
	if len(marked) != 1 || marked[0] != "meal:dinner" {
		t.Errorf("marked = %v", marked)
	}
}
