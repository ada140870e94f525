package models

import "time"

// UserProgress is the single learner's cumulative progression state
type UserProgress struct {
	TotalXP             int
	Level               int
	StreakDays          int
	LongestStreak       int
	LastActivity        *time.Time
	TotalSecondsStudied int
	CEFRLevel           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DailyActivity accumulates one calendar day's learning totals.
// Date is an ISO date string (YYYY-MM-DD) and acts as the unique key.
type DailyActivity struct {
	Date               string
	TotalSeconds       int
	XPEarned           int
	WordsLearned       int
	ExercisesCompleted int
	SessionCount       int
	Active             bool
}

// DateKey formats a time as the daily activity date key
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
