package models

import "time"

// Activity types a learning session can be opened for
const (
	ActivityVocabulary   = "vocabulary"
	ActivitySpeaking     = "speaking"
	ActivityConversation = "conversation"
	ActivityWriting      = "writing"
	ActivityGrammar      = "grammar"
	ActivityListening    = "listening"
	ActivityReading      = "reading"
	ActivityMockExam     = "mock_exam"
)

// ActivityTypes lists every recognized activity type
var ActivityTypes = []string{
	ActivityVocabulary,
	ActivitySpeaking,
	ActivityConversation,
	ActivityWriting,
	ActivityGrammar,
	ActivityListening,
	ActivityReading,
	ActivityMockExam,
}

// ValidActivityType reports whether s names a known activity type
func ValidActivityType(s string) bool {
	for _, a := range ActivityTypes {
		if a == s {
			return true
		}
	}
	return false
}

// LearningSession records one sitting of study activity
type LearningSession struct {
	ID                 int64
	Token              string
	ActivityType       string
	CEFRLevel          string
	StartedAt          time.Time
	EndedAt            *time.Time
	DurationSeconds    int
	XPEarned           int
	WordsLearned       int
	ExercisesCompleted int
	MistakesMade       int
	Notes              string
}

// Completed reports whether the session has been finalized
func (s *LearningSession) Completed() bool {
	return s.EndedAt != nil
}

// SessionTotals aggregates completed sessions over a time window
type SessionTotals struct {
	Sessions           int
	TotalSeconds       int
	TotalXP            int
	WordsLearned       int
	ExercisesCompleted int
	AvgDurationSeconds float64
}

// Mistake is a logged error from an exercise, kept for pattern analysis
type Mistake struct {
	ID            int64
	SessionID     int64
	MistakeType   string
	Category      string
	Subcategory   string
	UserAnswer    string
	CorrectAnswer string
	Explanation   string
	GrammarRule   string
	CEFRLevel     string
	Resolved      bool
	CreatedAt     time.Time
}

// MistakePattern aggregates repeated mistakes by category
type MistakePattern struct {
	Category    string
	Subcategory string
	Count       int
}
