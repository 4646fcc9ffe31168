// Package streak computes logging streaks from activity day markers.
package streak

import (
	"time"

	"github.com/vladimiradmaev/calorie-tracker/internal/calendar"
)

// Summary holds the current and longest streak lengths in days.
type Summary struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// Current returns the length of the consecutive-day streak ending today or
// yesterday.
//
// days must be sorted descending with at most one marker per day. "Today" and
// "yesterday" are taken in now's location; consecutiveness between markers is
// measured in UTC epoch days. A lapse of two or more days yields 0 regardless
// of older history.
func Current(days []calendar.Day, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	today := calendar.Today(now)
	yesterday := calendar.Yesterday(now)

	start := -1
	for i, d := range days {
		if d == today || d == yesterday {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}

	count := 1
	prev := days[start].EpochDay()
	for _, d := range days[start+1:] {
		cur := d.EpochDay()
		if prev-cur != 1 {
			break
		}
		count++
		prev = cur
	}
	return count
}

// Longest returns the longest run of consecutive days anywhere in days,
// which must be sorted descending.
func Longest(days []calendar.Day) int {
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].EpochDay()-days[i].EpochDay() == 1 {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 1
	}
	return longest
}

// Compute returns both streak lengths.
func Compute(days []calendar.Day, now time.Time) Summary {
	s := Summary{
		Current: Current(days, now),
		Longest: Longest(days),
	}
	if s.Current > s.Longest {
		s.Longest = s.Current
	}
	return s
}
