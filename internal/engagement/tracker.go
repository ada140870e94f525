package engagement

import (
	"fmt"
	"math"
	"time"

	"lernbuddy/internal/config"
	"lernbuddy/internal/models"
)

// Store is the progress persistence the tracker needs
type Store interface {
	Progress() (*models.UserProgress, error)
	SaveProgress(p *models.UserProgress) error
}

// Tracker maintains the daily study streak and cumulative study time
type Tracker struct {
	store Store
	cfg   config.SessionConfig
}

// NewTracker creates a streak tracker over the given store
func NewTracker(store Store, cfg config.SessionConfig) *Tracker {
	return &Tracker{store: store, cfg: cfg}
}

// StreakInfo is the current streak state
type StreakInfo struct {
	Current      int
	Longest      int
	LastActivity *time.Time
	ActiveToday  bool
}

// RecordSession counts a finished session toward today's streak. Sessions
// shorter than the configured minimum do not register. The streak extends
// by one when the last activity was yesterday, stays put when it was
// today, and resets to one after a longer gap.
func (t *Tracker) RecordSession(today time.Time, durationSeconds int) (*StreakInfo, error) {
	if durationSeconds < t.cfg.MinStreakSeconds {
		return t.Current(today)
	}

	progress, err := t.store.Progress()
	if err != nil {
		return nil, err
	}

	day := truncateToDay(today)
	switch {
	case progress.LastActivity == nil:
		progress.StreakDays = 1
	default:
		gap := daysBetween(truncateToDay(*progress.LastActivity), day)
		switch {
		case gap <= 0:
			// Already counted today.
		case gap == 1:
			progress.StreakDays++
		default:
			progress.StreakDays = 1
		}
	}

	if progress.StreakDays > progress.LongestStreak {
		progress.LongestStreak = progress.StreakDays
	}
	progress.LastActivity = &day
	progress.UpdatedAt = today

	if err := t.store.SaveProgress(progress); err != nil {
		return nil, fmt.Errorf("record streak session: %w", err)
	}
	return streakInfo(progress, day), nil
}

// AddStudyTime adds a finished session's duration to the lifetime total
func (t *Tracker) AddStudyTime(seconds int) error {
	if seconds <= 0 {
		return nil
	}

	progress, err := t.store.Progress()
	if err != nil {
		return err
	}
	progress.TotalSecondsStudied += seconds
	progress.UpdatedAt = time.Now()
	if err := t.store.SaveProgress(progress); err != nil {
		return fmt.Errorf("add study time: %w", err)
	}
	return nil
}

// Current returns the streak state relative to the given day without
// modifying it. A streak older than yesterday reads as broken (zero)
// even before the next session resets it in storage.
func (t *Tracker) Current(today time.Time) (*StreakInfo, error) {
	progress, err := t.store.Progress()
	if err != nil {
		return nil, err
	}

	day := truncateToDay(today)
	info := streakInfo(progress, day)
	if progress.LastActivity != nil {
		gap := daysBetween(truncateToDay(*progress.LastActivity), day)
		if gap > 1 {
			info.Current = 0
		}
	}
	return info, nil
}

func streakInfo(progress *models.UserProgress, day time.Time) *StreakInfo {
	info := &StreakInfo{
		Current:      progress.StreakDays,
		Longest:      progress.LongestStreak,
		LastActivity: progress.LastActivity,
	}
	if progress.LastActivity != nil {
		info.ActiveToday = truncateToDay(*progress.LastActivity).Equal(day)
	}
	return info
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, negative when b is
// earlier. Rounding absorbs DST shifts of an hour either way.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
