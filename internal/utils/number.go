package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

var ErrEmptyInput = errors.New("empty input")

// ParseNumber parses a decimal typed by a person. A comma works as the
// decimal separator ("1,5").
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyInput
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// ParseAmount splits input like "2 slices", "150g" or "1,5" into a
// quantity and an optional serving label. A bare label means one of it.
func ParseAmount(s string) (float64, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", ErrEmptyInput
	}

	end := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != ','
	})
	if end == 0 {
		return 1, s, nil
	}
	if end < 0 {
		end = len(s)
	}

	qty, err := ParseNumber(s[:end])
	if err != nil {
		return 0, "", err
	}
	if qty <= 0 {
		return 0, "", fmt.Errorf("amount must be positive, got %s", s[:end])
	}
	return qty, strings.TrimSpace(s[end:]), nil
}
