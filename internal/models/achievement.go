package models

import "time"

// Achievement categories determine which progress counter feeds each entry
const (
	CategoryStreak     = "streak"
	CategoryVocabulary = "vocabulary"
	CategorySpeaking   = "speaking"
	CategoryWriting    = "writing"
	CategoryExam       = "exam"
	CategoryMilestone  = "milestone"
)

// Achievement is one entry of the fixed milestone catalog
type Achievement struct {
	ID          int64
	Name        string
	Title       string
	Description string
	Category    string
	Requirement int
	XPReward    int
	Icon        string
	Progress    int
	Unlocked    bool
	UnlockedAt  *time.Time
}

// Percent returns achievement progress as a percentage, capped at 100
func (a *Achievement) Percent() float64 {
	if a.Requirement <= 0 || a.Unlocked {
		return 100
	}
	pct := float64(a.Progress) / float64(a.Requirement) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}
