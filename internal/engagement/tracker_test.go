package engagement

import (
	"testing"
	"time"

	"lernbuddy/internal/config"
	"lernbuddy/internal/models"
)

type fakeStore struct {
	progress models.UserProgress
	saves    int
}

func (s *fakeStore) Progress() (*models.UserProgress, error) {
	copied := s.progress
	return &copied, nil
}

func (s *fakeStore) SaveProgress(p *models.UserProgress) error {
	s.progress = *p
	s.saves++
	return nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func storeWithStreak(streak, longest int, lastActivity *time.Time) *fakeStore {
	return &fakeStore{progress: models.UserProgress{
		StreakDays:    streak,
		LongestStreak: longest,
		LastActivity:  lastActivity,
	}}
}

func TestRecordSession(t *testing.T) {
	today := day(2026, 3, 10)
	yesterday := day(2026, 3, 9)
	lastWeek := day(2026, 3, 3)

	tests := []struct {
		name        string
		streak      int
		longest     int
		last        *time.Time
		wantStreak  int
		wantLongest int
	}{
		{
			name:   "first ever session starts at one",
			streak: 0, longest: 0, last: nil,
			wantStreak: 1, wantLongest: 1,
		},
		{
			name:   "consecutive day extends and updates longest",
			streak: 5, longest: 5, last: &yesterday,
			wantStreak: 6, wantLongest: 6,
		},
		{
			name:   "consecutive day below record keeps longest",
			streak: 2, longest: 9, last: &yesterday,
			wantStreak: 3, wantLongest: 9,
		},
		{
			name:   "second session same day changes nothing",
			streak: 4, longest: 7, last: &today,
			wantStreak: 4, wantLongest: 7,
		},
		{
			name:   "gap resets to one",
			streak: 12, longest: 12, last: &lastWeek,
			wantStreak: 1, wantLongest: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithStreak(tt.streak, tt.longest, tt.last)
			tracker := NewTracker(store, config.DefaultSession())

			sessionTime := today.Add(20 * time.Hour)
			info, err := tracker.RecordSession(sessionTime, 900)
			if err != nil {
				t.Fatalf("RecordSession() error = %v", err)
			}

			if info.Current != tt.wantStreak {
				t.Errorf("streak = %d, want %d", info.Current, tt.wantStreak)
			}
			if info.Longest != tt.wantLongest {
				t.Errorf("longest = %d, want %d", info.Longest, tt.wantLongest)
			}
			if !info.ActiveToday {
				t.Error("activeToday = false after recording")
			}
			if store.progress.LastActivity == nil || !store.progress.LastActivity.Equal(today) {
				t.Errorf("lastActivity = %v, want %v", store.progress.LastActivity, today)
			}
		})
	}
}

func TestRecordSessionTooShort(t *testing.T) {
	yesterday := day(2026, 3, 9)
	store := storeWithStreak(5, 5, &yesterday)
	tracker := NewTracker(store, config.DefaultSession())

	info, err := tracker.RecordSession(day(2026, 3, 10), 599)
	if err != nil {
		t.Fatalf("RecordSession() error = %v", err)
	}
	if info.Current != 5 {
		t.Errorf("streak = %d, want unchanged 5", info.Current)
	}
	if store.saves != 0 {
		t.Errorf("short session persisted %d times", store.saves)
	}
}

func TestCurrentReportsBrokenStreak(t *testing.T) {
	lastWeek := day(2026, 3, 3)
	store := storeWithStreak(8, 10, &lastWeek)
	tracker := NewTracker(store, config.DefaultSession())

	info, err := tracker.Current(day(2026, 3, 10))
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if info.Current != 0 {
		t.Errorf("stale streak reads %d, want 0", info.Current)
	}
	if info.Longest != 10 {
		t.Errorf("longest = %d, want 10", info.Longest)
	}
	if store.progress.StreakDays != 8 {
		t.Errorf("Current() mutated stored streak to %d", store.progress.StreakDays)
	}
}

func TestCurrentIntactStreak(t *testing.T) {
	yesterday := day(2026, 3, 9)
	store := storeWithStreak(3, 4, &yesterday)
	tracker := NewTracker(store, config.DefaultSession())

	info, err := tracker.Current(day(2026, 3, 10))
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if info.Current != 3 {
		t.Errorf("streak = %d, want 3", info.Current)
	}
	if info.ActiveToday {
		t.Error("activeToday = true with yesterday's activity")
	}
}

func TestAddStudyTime(t *testing.T) {
	store := &fakeStore{progress: models.UserProgress{TotalSecondsStudied: 1000}}
	tracker := NewTracker(store, config.DefaultSession())

	if err := tracker.AddStudyTime(900); err != nil {
		t.Fatalf("AddStudyTime() error = %v", err)
	}
	if store.progress.TotalSecondsStudied != 1900 {
		t.Errorf("total seconds = %d, want 1900", store.progress.TotalSecondsStudied)
	}

	if err := tracker.AddStudyTime(0); err != nil {
		t.Fatalf("AddStudyTime(0) error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("zero duration persisted, saves = %d", store.saves)
	}
}
