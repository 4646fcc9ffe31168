package services

import (
	"context"
	"time"

	apperrors "github.com/vladimiradmaev/calorie-tracker/internal/errors"
	"github.com/vladimiradmaev/calorie-tracker/internal/repository"
	"github.com/vladimiradmaev/calorie-tracker/internal/streak"
)

type StreakService struct {
	store *repository.Store
	loc   *time.Location
	now   func() time.Time
}

func NewStreakService(store *repository.Store, loc *time.Location) *StreakService {
	if loc == nil {
		loc = time.Local
	}
	return &StreakService{store: store, loc: loc, now: time.Now}
}

// SetClock replaces the time source (for testing).
func (s *StreakService) SetClock(now func() time.Time) {
	s.now = now
}

// Summary returns the current and longest streaks as of now.
func (s *StreakService) Summary(ctx context.Context) (streak.Summary, error) {
	days, err := s.store.Streaks.ListDesc(ctx)
	if err != nil {
		return streak.Summary{}, apperrors.NewDatabaseError(err)
	}
	return streak.Compute(days, s.now().In(s.loc)), nil
}
