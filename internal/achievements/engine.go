package achievements

import (
	"fmt"
	"time"

	"lernbuddy/internal/models"
)

// Store is the achievement persistence the engine needs
type Store interface {
	InsertIfAbsent(a *models.Achievement) error
	List() ([]models.Achievement, error)
	Locked() ([]models.Achievement, error)
	UnlockedOnly() ([]models.Achievement, error)
	Save(a *models.Achievement) error
}

// ProgressReader exposes the learner stats that drive streak, speaking
// and study-time achievements
type ProgressReader interface {
	Progress() (*models.UserProgress, error)
}

// VocabCounter exposes the learned-word count for vocabulary achievements
type VocabCounter interface {
	LearnedCount() (int, error)
}

// ExternalCounters carries progress the engine cannot read from storage.
// The orchestrator accumulates these across sessions and passes them in
// on refresh.
type ExternalCounters struct {
	WritingCompleted  int
	ExamsPassed       map[string]int // tier -> passed count
	PerfectScores     int
	SessionsCompleted int
}

// Engine seeds the achievement catalog and checks locked achievements
// against live learner stats
type Engine struct {
	store    Store
	progress ProgressReader
	vocab    VocabCounter
}

// NewEngine creates an achievement engine over the given stores
func NewEngine(store Store, progress ProgressReader, vocab VocabCounter) *Engine {
	return &Engine{store: store, progress: progress, vocab: vocab}
}

// Seed inserts any catalog entries missing from storage. Existing rows
// keep their progress and unlock state.
func (e *Engine) Seed(catalog []models.Achievement) error {
	for i := range catalog {
		if err := e.store.InsertIfAbsent(&catalog[i]); err != nil {
			return fmt.Errorf("seed achievement %q: %w", catalog[i].Name, err)
		}
	}
	return nil
}

// Refresh recomputes progress for every locked achievement and unlocks
// those whose requirement is met. It returns only the achievements
// unlocked during this pass; an achievement unlocks exactly once. The
// caller routes each XPReward through the progression engine.
func (e *Engine) Refresh(now time.Time, ext ExternalCounters) ([]models.Achievement, error) {
	locked, err := e.store.Locked()
	if err != nil {
		return nil, err
	}
	if len(locked) == 0 {
		return nil, nil
	}

	progress, err := e.progress.Progress()
	if err != nil {
		return nil, err
	}
	learnedWords, err := e.vocab.LearnedCount()
	if err != nil {
		return nil, err
	}

	var unlocked []models.Achievement
	for i := range locked {
		a := &locked[i]
		current := e.currentProgress(a, progress, learnedWords, ext)

		// Progress never moves backwards even if a source counter does.
		if current < a.Progress {
			current = a.Progress
		}

		if current >= a.Requirement {
			a.Progress = a.Requirement
			a.Unlocked = true
			unlockedAt := now
			a.UnlockedAt = &unlockedAt
		} else if current == a.Progress {
			continue
		} else {
			a.Progress = current
		}

		if err := e.store.Save(a); err != nil {
			return nil, fmt.Errorf("save achievement %q: %w", a.Name, err)
		}
		if a.Unlocked {
			unlocked = append(unlocked, *a)
		}
	}
	return unlocked, nil
}

// currentProgress maps an achievement to the learner stat it tracks.
// Speaking and study-time requirements are stored in minutes.
func (e *Engine) currentProgress(a *models.Achievement, progress *models.UserProgress, learnedWords int, ext ExternalCounters) int {
	switch a.Category {
	case models.CategoryStreak:
		return progress.StreakDays
	case models.CategoryVocabulary:
		return learnedWords
	case models.CategorySpeaking:
		return progress.TotalSecondsStudied / 60
	case models.CategoryWriting:
		return ext.WritingCompleted
	case models.CategoryExam:
		if tier, ok := examTier(a.Name); ok {
			return ext.ExamsPassed[tier]
		}
		return 0
	case models.CategoryMilestone:
		return e.milestoneProgress(a.Name, progress, ext)
	}
	return 0
}

func (e *Engine) milestoneProgress(name string, progress *models.UserProgress, ext ExternalCounters) int {
	switch name {
	case "first_step":
		return ext.SessionsCompleted
	case "perfectionist_10", "perfectionist_50", "perfectionist_100":
		return ext.PerfectScores
	case "dedicated_10", "dedicated_50", "dedicated_200", "dedicated_500":
		return progress.TotalSecondsStudied / 60
	}
	return 0
}

// examTier extracts the CEFR tier from an exam achievement name such as
// "exam_b1"
func examTier(name string) (string, bool) {
	const prefix = "exam_"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return "", false
	}
	switch suffix := name[len(prefix):]; suffix {
	case "a1":
		return models.TierA1, true
	case "a2":
		return models.TierA2, true
	case "b1":
		return models.TierB1, true
	case "b2":
		return models.TierB2, true
	}
	return "", false
}

// All returns every achievement with its progress
func (e *Engine) All() ([]models.Achievement, error) {
	return e.store.List()
}

// Unlocked returns only earned achievements
func (e *Engine) Unlocked() ([]models.Achievement, error) {
	return e.store.UnlockedOnly()
}
