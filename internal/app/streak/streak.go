// Package streak implements the daily activity streak behind the
// stage-gated streak tracker widget. Same-day activity is idempotent,
// consecutive days extend the run, a gap resets it silently, and the
// longest run is preserved.
package streak

import (
	"fmt"
	"strconv"
	"time"

	"github.com/stagecraft-app/stagecraft/internal/domain"
	"github.com/stagecraft-app/stagecraft/internal/infra/sqlite"
)

// Service manages the activity streak, persisted in the profile KV store.
type Service struct {
	db *sqlite.DB
}

// NewService creates a streak service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Current loads the current streak state.
func (s *Service) Current() (domain.Streak, error) {
	var streak domain.Streak

	days, err := s.db.GetProfile("streak_current")
	if err != nil {
		return streak, fmt.Errorf("get streak_current: %w", err)
	}
	if days != "" {
		streak.CurrentDays, _ = strconv.Atoi(days)
	}

	longest, err := s.db.GetProfile("streak_longest")
	if err != nil {
		return streak, fmt.Errorf("get streak_longest: %w", err)
	}
	if longest != "" {
		streak.LongestDays, _ = strconv.Atoi(longest)
	}

	lastDate, err := s.db.GetProfile("streak_last_date")
	if err != nil {
		return streak, fmt.Errorf("get streak_last_date: %w", err)
	}
	if lastDate != "" {
		ts, _ := strconv.ParseInt(lastDate, 10, 64)
		streak.LastDate = time.Unix(ts, 0).UTC()
	}

	return streak, nil
}

// RecordActivity records a day of app activity.
// Same day: no-op. Consecutive day: extend. Gap: reset silently.
func (s *Service) RecordActivity(day time.Time) (domain.Streak, error) {
	streak, err := s.Current()
	if err != nil {
		return streak, err
	}

	today := day.UTC().Truncate(24 * time.Hour)

	switch {
	case streak.LastDate.IsZero():
		streak.CurrentDays = 1

	case today.Equal(streak.LastDate.Truncate(24 * time.Hour)):
		// Same day — already counted
		return streak, nil

	case today.Sub(streak.LastDate.Truncate(24*time.Hour)) <= 24*time.Hour:
		streak.CurrentDays++

	default:
		streak.CurrentDays = 1
	}

	streak.LastDate = today
	if streak.CurrentDays > streak.LongestDays {
		streak.LongestDays = streak.CurrentDays
	}

	return streak, s.save(streak)
}

// save persists streak state to the profile KV table.
func (s *Service) save(streak domain.Streak) error {
	pairs := map[string]string{
		"streak_current":   strconv.Itoa(streak.CurrentDays),
		"streak_longest":   strconv.Itoa(streak.LongestDays),
		"streak_last_date": strconv.FormatInt(streak.LastDate.Unix(), 10),
	}
	for k, v := range pairs {
		if err := s.db.SetProfile(k, v); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}
