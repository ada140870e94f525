package config

import "math"

// MaxLevel is the highest reachable level, the end of the B2 curriculum
const MaxLevel = 70

// SRSConfig holds the spaced-repetition tuning constants
type SRSConfig struct {
	StartingEase         float64
	MinimumEase          float64
	MaximumEase          float64
	EasyBonus            float64
	MasteryThresholdDays int
	NewCardsPerDay       int
	ReviewCardsPerDay    int
}

// DefaultSRS returns the modified SM-2 defaults
func DefaultSRS() SRSConfig {
	return SRSConfig{
		StartingEase:         2.5,
		MinimumEase:          1.3,
		MaximumEase:          2.5,
		EasyBonus:            1.3,
		MasteryThresholdDays: 21,
		NewCardsPerDay:       20,
		ReviewCardsPerDay:    100,
	}
}

// XPConfig maps learning actions to experience point amounts
type XPConfig struct {
	LoginBonus            int
	VocabularyCorrect     int
	VocabularyIncorrect   int
	VocabularyNewWord     int
	SpeakingPerMinute     int
	WritingShort          int // < 100 words
	WritingMedium         int // 100-300 words
	WritingLong           int // > 300 words
	GrammarCorrect        int
	GrammarIncorrect      int
	ListeningExercise     int
	ReadingExercise       int
	ConversationPerMinute int
	MockExamCompletion    int
	MockExamPassBonus     int
}

// DefaultXP returns the standard XP award table
func DefaultXP() XPConfig {
	return XPConfig{
		LoginBonus:            25,
		VocabularyCorrect:     5,
		VocabularyIncorrect:   2,
		VocabularyNewWord:     10,
		SpeakingPerMinute:     5,
		WritingShort:          20,
		WritingMedium:         50,
		WritingLong:           100,
		GrammarCorrect:        10,
		GrammarIncorrect:      5,
		ListeningExercise:     15,
		ReadingExercise:       15,
		ConversationPerMinute: 8,
		MockExamCompletion:    200,
		MockExamPassBonus:     300,
	}
}

// SessionConfig holds session-level thresholds
type SessionConfig struct {
	// MinStreakSeconds is the minimum session length that counts toward
	// the daily streak (10 minutes)
	MinStreakSeconds int
}

// DefaultSession returns the standard session thresholds
func DefaultSession() SessionConfig {
	return SessionConfig{MinStreakSeconds: 600}
}

// CEFRBand maps an inclusive level range to a CEFR tier
type CEFRBand struct {
	Tier string
	Min  int
	Max  int
}

// CEFRBands returns the level ranges for each CEFR tier in ascending order
func CEFRBands() []CEFRBand {
	return []CEFRBand{
		{Tier: "A1", Min: 1, Max: 10},
		{Tier: "A2", Min: 11, Max: 25},
		{Tier: "B1", Min: 26, Max: 45},
		{Tier: "B2", Min: 46, Max: MaxLevel},
	}
}

// levelThresholds holds the hand-tuned cumulative XP requirements for the
// early levels. Levels past the table fall back to floor(100 * N^1.5).
var levelThresholds = map[int]int{
	1: 0, 2: 141, 3: 346, 4: 632, 5: 968,
	6: 1342, 7: 1747, 8: 2179, 9: 2635, 10: 3114,
	11: 3614, 12: 4134, 13: 4672, 14: 5228, 15: 5801,
	16: 6391, 17: 6996, 18: 7617, 19: 8253, 20: 8944,
	21: 9549, 22: 10199, 23: 10862, 24: 11539, 25: 12229,
	26: 12933, 27: 13649, 28: 14378, 29: 15120, 30: 15875,
}

// LevelTable is an immutable lookup of cumulative XP thresholds per level
type LevelTable struct {
	thresholds [MaxLevel + 1]int
}

// DefaultLevels builds the level table from the explicit thresholds,
// filling the remaining levels with the power-curve formula
func DefaultLevels() *LevelTable {
	t := &LevelTable{}
	for level := 1; level <= MaxLevel; level++ {
		if xp, ok := levelThresholds[level]; ok {
			t.thresholds[level] = xp
			continue
		}
		t.thresholds[level] = int(math.Floor(100 * math.Pow(float64(level), 1.5)))
	}
	return t
}

// XPForLevel returns the cumulative XP required to reach a level.
// Levels at or below 1 require 0 XP; levels past MaxLevel return the
// MaxLevel threshold since there is nothing further to earn toward.
func (t *LevelTable) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > MaxLevel {
		return t.thresholds[MaxLevel]
	}
	return t.thresholds[level]
}

// LevelForXP returns the highest level whose threshold is within xp,
// clamped to MaxLevel
func (t *LevelTable) LevelForXP(xp int) int {
	level := 1
	for level < MaxLevel && xp >= t.thresholds[level+1] {
		level++
	}
	return level
}
