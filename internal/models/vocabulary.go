package models

import "time"

// CEFR proficiency tiers used to group vocabulary by difficulty
const (
	TierA1 = "A1"
	TierA2 = "A2"
	TierB1 = "B1"
	TierB2 = "B2"
)

// Tiers lists the supported CEFR tiers in ascending order
var Tiers = []string{TierA1, TierA2, TierB1, TierB2}

// ValidTier reports whether tier is a supported CEFR tier
func ValidTier(tier string) bool {
	for _, t := range Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// VocabularyItem represents one learnable word and its review schedule
type VocabularyItem struct {
	ID                 int64
	Word               string
	Translation        string
	CEFRLevel          string
	PartOfSpeech       string
	Gender             string
	PluralForm         string
	ExampleSentence    string
	ExampleTranslation string
	Source             string
	EaseFactor         float64
	IntervalDays       int
	Repetitions        int
	TimesReviewed      int
	TimesCorrect       int
	TimesMissed        int
	LastReviewed       *time.Time
	NextDue            time.Time
	Mastered           bool
	CreatedAt          time.Time
}

// Accuracy returns the percentage of correct reviews, rounded to one decimal
func (v *VocabularyItem) Accuracy() float64 {
	if v.TimesReviewed == 0 {
		return 0
	}
	pct := float64(v.TimesCorrect) / float64(v.TimesReviewed) * 100
	return float64(int(pct*10+0.5)) / 10
}

// VocabularyStats summarizes the state of the vocabulary collection
type VocabularyStats struct {
	TotalWords      int
	DueReviews      int
	NewAvailable    int
	Mastered        int
	AverageAccuracy float64
}
