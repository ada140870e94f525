package progression

import (
	"fmt"
	"time"

	"lernbuddy/internal/config"
	"lernbuddy/internal/models"
)

// Store is the progress persistence the engine needs
type Store interface {
	Progress() (*models.UserProgress, error)
	SaveProgress(p *models.UserProgress) error
}

// Engine awards experience points and derives levels and CEFR tiers
type Engine struct {
	store  Store
	levels *config.LevelTable
	bands  []config.CEFRBand
	xp     config.XPConfig
}

// NewEngine creates a progression engine over the given store
func NewEngine(store Store, levels *config.LevelTable, bands []config.CEFRBand, xp config.XPConfig) *Engine {
	return &Engine{store: store, levels: levels, bands: bands, xp: xp}
}

// AwardResult reports one XP award and any level change it caused
type AwardResult struct {
	XPGained  int
	TotalXP   int
	OldLevel  int
	NewLevel  int
	LeveledUp bool
	Reason    string
}

// LevelInfo describes the learner's position within the current level
type LevelInfo struct {
	Level         int
	TotalXP       int
	CEFRLevel     string
	LevelFloor    int
	NextLevelXP   int
	XPToNext      int
	PercentToNext float64
}

// Award adds XP to the persistent total and recomputes the level and CEFR
// tier. A zero or negative amount changes nothing. The level never
// decreases because the total never decreases.
func (e *Engine) Award(amount int, reason string) (*AwardResult, error) {
	progress, err := e.store.Progress()
	if err != nil {
		return nil, err
	}

	result := &AwardResult{
		XPGained: 0,
		TotalXP:  progress.TotalXP,
		OldLevel: progress.Level,
		NewLevel: progress.Level,
		Reason:   reason,
	}
	if amount <= 0 {
		return result, nil
	}

	progress.TotalXP += amount
	newLevel := e.levels.LevelForXP(progress.TotalXP)
	progress.Level = newLevel
	progress.CEFRLevel = e.TierFor(newLevel)

	if err := e.store.SaveProgress(progress); err != nil {
		return nil, fmt.Errorf("award %d xp: %w", amount, err)
	}

	result.XPGained = amount
	result.TotalXP = progress.TotalXP
	result.NewLevel = newLevel
	result.LeveledUp = newLevel > result.OldLevel
	return result, nil
}

// LevelForXP returns the level a total XP amount corresponds to
func (e *Engine) LevelForXP(totalXP int) int {
	return e.levels.LevelForXP(totalXP)
}

// TierFor maps a level to its CEFR band, defaulting to the highest band
// for levels beyond the table
func (e *Engine) TierFor(level int) string {
	for _, band := range e.bands {
		if level >= band.Min && level <= band.Max {
			return band.Tier
		}
	}
	if len(e.bands) == 0 {
		return models.TierA1
	}
	return e.bands[len(e.bands)-1].Tier
}

// CurrentLevelInfo reads the stored progress and describes the position
// within the current level
func (e *Engine) CurrentLevelInfo() (*LevelInfo, error) {
	progress, err := e.store.Progress()
	if err != nil {
		return nil, err
	}
	info := e.levelInfo(progress.TotalXP)
	return info, nil
}

func (e *Engine) levelInfo(totalXP int) *LevelInfo {
	level := e.levels.LevelForXP(totalXP)
	floor := e.levels.XPForLevel(level)

	info := &LevelInfo{
		Level:      level,
		TotalXP:    totalXP,
		CEFRLevel:  e.TierFor(level),
		LevelFloor: floor,
	}

	if level >= config.MaxLevel {
		info.NextLevelXP = floor
		info.XPToNext = 0
		info.PercentToNext = 100
		return info
	}

	next := e.levels.XPForLevel(level + 1)
	info.NextLevelXP = next
	info.XPToNext = next - totalXP
	span := next - floor
	if span > 0 {
		info.PercentToNext = float64(totalXP-floor) / float64(span) * 100
	}
	return info
}

// ProgressWithinLevel returns how far through the current level a total
// XP amount is, as a percentage. The maximum level always reports 100.
func (e *Engine) ProgressWithinLevel(totalXP int) float64 {
	return e.levelInfo(totalXP).PercentToNext
}

// ActivityStats describes one finished activity for XP calculation
type ActivityStats struct {
	ActivityType     string
	DurationSeconds  int
	CorrectAnswers   int
	IncorrectAnswers int
	NewWords         int
	WritingLength    string
	ExamPassed       bool
}

// XPBreakdown itemizes where a session's XP came from
type XPBreakdown struct {
	Base         int
	Correct      int
	Incorrect    int
	NewWords     int
	PerfectBonus int
	Total        int
}

// SessionXP computes the XP a finished activity earns. Timed activities
// pay per minute, answer-based ones per answer, and a flawless run with
// at least five correct answers adds a ten percent bonus.
func (e *Engine) SessionXP(stats ActivityStats) XPBreakdown {
	var b XPBreakdown
	minutes := stats.DurationSeconds / 60

	switch stats.ActivityType {
	case models.ActivityVocabulary:
		b.Correct = stats.CorrectAnswers * e.xp.VocabularyCorrect
		b.Incorrect = stats.IncorrectAnswers * e.xp.VocabularyIncorrect
		b.NewWords = stats.NewWords * e.xp.VocabularyNewWord
	case models.ActivitySpeaking:
		b.Base = minutes * e.xp.SpeakingPerMinute
	case models.ActivityConversation:
		b.Base = minutes * e.xp.ConversationPerMinute
	case models.ActivityWriting:
		switch stats.WritingLength {
		case "medium":
			b.Base = e.xp.WritingMedium
		case "long":
			b.Base = e.xp.WritingLong
		default:
			b.Base = e.xp.WritingShort
		}
	case models.ActivityGrammar:
		b.Correct = stats.CorrectAnswers * e.xp.GrammarCorrect
		b.Incorrect = stats.IncorrectAnswers * e.xp.GrammarIncorrect
	case models.ActivityListening:
		b.Base = e.xp.ListeningExercise
	case models.ActivityReading:
		b.Base = e.xp.ReadingExercise
	case models.ActivityMockExam:
		b.Base = e.xp.MockExamCompletion
		if stats.ExamPassed {
			b.Base += e.xp.MockExamPassBonus
		}
	}

	subtotal := b.Base + b.Correct + b.Incorrect + b.NewWords
	if stats.IncorrectAnswers == 0 && stats.CorrectAnswers >= 5 {
		b.PerfectBonus = subtotal / 10
	}
	b.Total = subtotal + b.PerfectBonus
	return b
}

// LoginBonus returns the daily login XP amount
func (e *Engine) LoginBonus() int {
	return e.xp.LoginBonus
}

// LevelReward returns a celebratory note for reaching a level. Milestone
// levels unlock new CEFR bands.
func (e *Engine) LevelReward(level int) string {
	for _, band := range e.bands {
		if level == band.Min && level > 1 {
			return fmt.Sprintf("Reached %s! New scenarios and vocabulary unlocked.", band.Tier)
		}
	}
	if level%10 == 0 {
		return fmt.Sprintf("Level %d milestone reached.", level)
	}
	return ""
}

// Touch updates the progress row's UpdatedAt without changing XP
func (e *Engine) Touch(now time.Time) error {
	progress, err := e.store.Progress()
	if err != nil {
		return err
	}
	progress.UpdatedAt = now
	return e.store.SaveProgress(progress)
}
