package schedule

import (
	"context"
	"fmt"
	"time"

	"fintrend/internal/state"
)

// maxMonthlyDay caps the monthly trigger day so every month qualifies;
// asking for day 31 fires on the 28th instead of never in February.
const maxMonthlyDay = 28

// Scheduler gates notification runs on the configured cadence and the
// recorded last dispatch.
type Scheduler struct {
	settings Settings
	store    state.Store
}

func NewScheduler(settings Settings, store state.Store) *Scheduler {
	return &Scheduler{settings: settings, store: store}
}

// IsDueToday reports whether a notification should go out, judged against
// the calendar day of now in the configured timezone. A run already recorded
// for today is never due again.
func (s *Scheduler) IsDueToday(ctx context.Context, now time.Time) (bool, error) {
	if !s.settings.Enabled {
		return false, nil
	}

	loc, err := s.settings.Location()
	if err != nil {
		return false, err
	}
	today := now.In(loc)

	last, haveLast, err := s.store.LastSent(ctx)
	if err != nil {
		return false, fmt.Errorf("read last sent date: %w", err)
	}
	if haveLast && sameDay(last, today) {
		return false, nil
	}

	switch s.settings.Frequency {
	case Weekly:
		return weekday(today) == s.settings.WeeklyWeekday, nil
	case Biweekly:
		if weekday(today) != s.settings.WeeklyWeekday {
			return false, nil
		}
		if !haveLast {
			return true, nil
		}
		return daysBetween(last, today) >= 14, nil
	case Monthly:
		return today.Day() == clampDay(s.settings.MonthlyDay), nil
	default:
		return false, fmt.Errorf("unknown frequency %q", s.settings.Frequency)
	}
}

// MarkSent records today (in the configured timezone) as the last dispatch.
// Called after the dispatch attempt, so a crash between send and record can
// repeat a notification but never lose one.
func (s *Scheduler) MarkSent(ctx context.Context, now time.Time) error {
	loc, err := s.settings.Location()
	if err != nil {
		return err
	}
	today := now.In(loc)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return s.store.SetLastSent(ctx, day)
}

// weekday maps to the 0=Monday .. 6=Sunday convention used in the settings.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func clampDay(day int) int {
	if day > maxMonthlyDay {
		return maxMonthlyDay
	}
	if day < 1 {
		return 1
	}
	return day
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// daysBetween counts whole calendar days from a to b, ignoring the time of
// day on either side.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}
