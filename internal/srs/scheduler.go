package srs

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"lernbuddy/internal/config"
	"lernbuddy/internal/models"
)

// Grade is the learner's self-assessed recall quality for one review
type Grade string

const (
	// GradeAgain means the word was not recalled; the schedule resets
	GradeAgain Grade = "again"
	// GradeHard means recalled with significant effort
	GradeHard Grade = "hard"
	// GradeGood means recalled correctly
	GradeGood Grade = "good"
	// GradeEasy means recalled instantly
	GradeEasy Grade = "easy"
)

var (
	ErrInvalidGrade = errors.New("invalid review grade")
	ErrInvalidLimit = errors.New("limit must not be negative")
	ErrInvalidTier  = errors.New("invalid CEFR tier")
)

// Store is the vocabulary persistence the scheduler needs
type Store interface {
	ItemByID(id int64) (*models.VocabularyItem, error)
	SaveItem(item *models.VocabularyItem) error
	DueItems(now time.Time, limit int) ([]models.VocabularyItem, error)
	NewItems(tier string, limit int) ([]models.VocabularyItem, error)
	DifficultItems(limit int) ([]models.VocabularyItem, error)
	Stats(now time.Time) (*models.VocabularyStats, error)
	DueCountOn(day time.Time) (int, error)
}

// Scheduler selects review queues and applies the modified SM-2 update rule
type Scheduler struct {
	store Store
	cfg   config.SRSConfig
}

// NewScheduler creates a scheduler over the given store
func NewScheduler(store Store, cfg config.SRSConfig) *Scheduler {
	return &Scheduler{store: store, cfg: cfg}
}

// ReviewResult reports the outcome of grading one item
type ReviewResult struct {
	ItemID       int64
	Word         string
	Grade        Grade
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextDue      time.Time
	Mastered     bool
	Accuracy     float64
}

// StudyStats summarizes the review workload relative to now
type StudyStats struct {
	models.VocabularyStats
	RecommendedReviews int
	RecommendedNew     int
}

// DueItems returns unmastered items due at or before now, earliest first.
// A zero limit uses the configured daily review cap. The order is
// deterministic; use Shuffle for presentation.
func (s *Scheduler) DueItems(now time.Time, limit int) ([]models.VocabularyItem, error) {
	if limit < 0 {
		return nil, fmt.Errorf("due items limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit == 0 {
		limit = s.cfg.ReviewCardsPerDay
	}
	return s.store.DueItems(now, limit)
}

// NewItems returns up to limit never-reviewed items of the given tier in
// the store's natural order. A zero limit uses the configured daily cap.
func (s *Scheduler) NewItems(tier string, limit int) ([]models.VocabularyItem, error) {
	if !models.ValidTier(tier) {
		return nil, fmt.Errorf("tier %q: %w", tier, ErrInvalidTier)
	}
	if limit < 0 {
		return nil, fmt.Errorf("new items limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit == 0 {
		limit = s.cfg.NewCardsPerDay
	}
	return s.store.NewItems(tier, limit)
}

// Review grades an item and persists the updated schedule
func (s *Scheduler) Review(id int64, grade Grade, now time.Time) (*ReviewResult, error) {
	switch grade {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
	default:
		return nil, fmt.Errorf("grade %q: %w", grade, ErrInvalidGrade)
	}

	item, err := s.store.ItemByID(id)
	if err != nil {
		return nil, err
	}

	s.applyGrade(item, grade, now)

	if err := s.store.SaveItem(item); err != nil {
		return nil, err
	}

	return &ReviewResult{
		ItemID:       item.ID,
		Word:         item.Word,
		Grade:        grade,
		EaseFactor:   item.EaseFactor,
		IntervalDays: item.IntervalDays,
		Repetitions:  item.Repetitions,
		NextDue:      item.NextDue,
		Mastered:     item.Mastered,
		Accuracy:     item.Accuracy(),
	}, nil
}

// applyGrade is the modified SM-2 update. The ease factor stays within
// [MinimumEase, MaximumEase] for any grade sequence; hard and easy compute
// the next interval from the updated ease.
func (s *Scheduler) applyGrade(item *models.VocabularyItem, grade Grade, now time.Time) {
	item.TimesReviewed++

	switch grade {
	case GradeAgain:
		item.TimesMissed++
		item.Repetitions = 0
		item.IntervalDays = 1
		item.EaseFactor = math.Max(s.cfg.MinimumEase, item.EaseFactor-0.2)
	case GradeHard:
		item.TimesCorrect++
		item.EaseFactor = math.Max(s.cfg.MinimumEase, item.EaseFactor-0.15)
		next := int(float64(item.IntervalDays) * 1.2)
		if next < 1 {
			next = 1
		}
		item.IntervalDays = next
		item.Repetitions++
	case GradeGood:
		item.TimesCorrect++
		if item.Repetitions > 0 {
			item.IntervalDays = int(float64(item.IntervalDays) * item.EaseFactor)
		} else {
			item.IntervalDays = 1
		}
		item.Repetitions++
	case GradeEasy:
		item.TimesCorrect++
		item.EaseFactor = math.Min(s.cfg.MaximumEase, item.EaseFactor+0.15)
		if item.Repetitions > 0 {
			item.IntervalDays = int(float64(item.IntervalDays) * item.EaseFactor * s.cfg.EasyBonus)
		} else {
			item.IntervalDays = 3
		}
		item.Repetitions++
	}

	reviewed := now
	item.LastReviewed = &reviewed
	item.NextDue = now.AddDate(0, 0, item.IntervalDays)
	item.Mastered = item.IntervalDays > s.cfg.MasteryThresholdDays
}

// Stats returns the current review workload with recommended queue sizes
func (s *Scheduler) Stats(now time.Time) (*StudyStats, error) {
	vocab, err := s.store.Stats(now)
	if err != nil {
		return nil, err
	}

	stats := &StudyStats{VocabularyStats: *vocab}
	stats.RecommendedReviews = min(vocab.DueReviews, s.cfg.ReviewCardsPerDay)
	stats.RecommendedNew = min(vocab.NewAvailable, s.cfg.NewCardsPerDay)
	return stats, nil
}

// Forecast maps each of the next days to the number of reviews coming due
func (s *Scheduler) Forecast(now time.Time, days int) (map[string]int, error) {
	if days < 0 {
		return nil, fmt.Errorf("forecast days %d: %w", days, ErrInvalidLimit)
	}

	forecast := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, i)
		count, err := s.store.DueCountOn(day)
		if err != nil {
			return nil, err
		}
		forecast[models.DateKey(day)] = count
	}
	return forecast, nil
}

// DifficultWords returns the lowest-accuracy items seen at least three times
func (s *Scheduler) DifficultWords(limit int) ([]models.VocabularyItem, error) {
	if limit < 0 {
		return nil, fmt.Errorf("difficult words limit %d: %w", limit, ErrInvalidLimit)
	}
	if limit == 0 {
		limit = 10
	}
	return s.store.DifficultItems(limit)
}

// Shuffle randomizes presentation order in place so the learner does not
// see items in the same sequence every session. Scheduling order is
// unaffected.
func Shuffle(items []models.VocabularyItem) {
	rand.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
