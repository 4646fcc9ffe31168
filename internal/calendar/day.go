package calendar

import (
	"fmt"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Day is a calendar date without a time of day or location.
// It is stored and transmitted in YYYY-MM-DD form.
type Day string

// DayOf returns the calendar day t falls on in t's own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(dayLayout))
}

// Today returns the calendar day of now in now's location.
func Today(now time.Time) Day {
	return DayOf(now)
}

// Yesterday returns the day before Today(now) in now's location.
func Yesterday(now time.Time) Day {
	return DayOf(now.AddDate(0, 0, -1))
}

// ParseDay validates s as a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day. An invalid day yields the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(dayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// EpochDay is the number of whole days between 1970-01-01 and d, both taken
// at UTC midnight.
func (d Day) EpochDay() int64 {
	return d.Time().Unix() / 86400
}

// AddDays returns the day n days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

func (d Day) String() string {
	return string(d)
}

// Month is a calendar month in YYYY-MM form.
type Month string

// MonthOf returns the month containing t in t's location.
func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// ParseMonth validates s as a YYYY-MM month.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// First returns the first day of the month.
func (m Month) First() Day {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return ""
	}
	return DayOf(t)
}

// Last returns the last day of the month.
func (m Month) Last() Day {
	first := m.First()
	if first == "" {
		return ""
	}
	return DayOf(first.Time().AddDate(0, 1, -1))
}

// Days lists every day of the month in ascending order.
func (m Month) Days() []Day {
	first, last := m.First(), m.Last()
	if first == "" {
		return nil
	}
	days := make([]Day, 0, 31)
	for d := first; d <= last; d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Day) bool {
	return len(d) >= len(monthLayout) && Month(d[:len(monthLayout)]) == m
}

func (m Month) String() string {
	return string(m)
}
