package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// VocabRepository handles database operations for vocabulary items
type VocabRepository struct {
	db *database.DB
}

// NewVocabRepository creates a new vocabulary repository
func NewVocabRepository(db *database.DB) *VocabRepository {
	return &VocabRepository{db: db}
}

const vocabColumns = `id, word, translation, cefr_level, part_of_speech, gender,
	plural_form, example_sentence, example_translation, source, ease_factor,
	interval_days, repetitions, times_reviewed, times_correct, times_missed,
	last_reviewed, next_due, mastered, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVocabItem(row rowScanner) (*models.VocabularyItem, error) {
	item := &models.VocabularyItem{}
	var lastReviewed sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.Word,
		&item.Translation,
		&item.CEFRLevel,
		&item.PartOfSpeech,
		&item.Gender,
		&item.PluralForm,
		&item.ExampleSentence,
		&item.ExampleTranslation,
		&item.Source,
		&item.EaseFactor,
		&item.IntervalDays,
		&item.Repetitions,
		&item.TimesReviewed,
		&item.TimesCorrect,
		&item.TimesMissed,
		&lastReviewed,
		&item.NextDue,
		&item.Mastered,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewed.Valid {
		item.LastReviewed = &lastReviewed.Time
	}
	return item, nil
}

// Create inserts a vocabulary item if the word is not already present.
// Re-creating an existing word is a no-op that fills in the stored ID.
func (r *VocabRepository) Create(item *models.VocabularyItem) error {
	var existingID int64
	err := r.db.QueryRow("SELECT id FROM vocabulary WHERE word = ?", item.Word).Scan(&existingID)
	if err == nil {
		item.ID = existingID
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check existing word: %w", err)
	}

	now := time.Now()
	if item.EaseFactor == 0 {
		item.EaseFactor = 2.5
	}
	if item.IntervalDays == 0 {
		item.IntervalDays = 1
	}
	if item.NextDue.IsZero() {
		// New words are due immediately
		item.NextDue = now
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	query := `
		INSERT INTO vocabulary (word, translation, cefr_level, part_of_speech,
			gender, plural_form, example_sentence, example_translation, source,
			ease_factor, interval_days, repetitions, times_reviewed,
			times_correct, times_missed, next_due, mastered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		item.Word,
		item.Translation,
		item.CEFRLevel,
		item.PartOfSpeech,
		item.Gender,
		item.PluralForm,
		item.ExampleSentence,
		item.ExampleTranslation,
		item.Source,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.TimesReviewed,
		item.TimesCorrect,
		item.TimesMissed,
		item.NextDue,
		item.Mastered,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vocabulary item: %w", err)
	}

	item.ID = id
	return nil
}

// ItemByID retrieves a vocabulary item by ID
func (r *VocabRepository) ItemByID(id int64) (*models.VocabularyItem, error) {
	query := "SELECT " + vocabColumns + " FROM vocabulary WHERE id = ?"
	item, err := scanVocabItem(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vocabulary item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary item: %w", err)
	}
	return item, nil
}

// SaveItem persists the review schedule and counters of an existing item
func (r *VocabRepository) SaveItem(item *models.VocabularyItem) error {
	query := `
		UPDATE vocabulary
		SET ease_factor = ?, interval_days = ?, repetitions = ?,
			times_reviewed = ?, times_correct = ?, times_missed = ?,
			last_reviewed = ?, next_due = ?, mastered = ?
		WHERE id = ?
	`
	var lastReviewed interface{}
	if item.LastReviewed != nil {
		lastReviewed = *item.LastReviewed
	}

	result, err := r.db.Exec(query,
		item.EaseFactor,
		item.IntervalDays,
		item.Repetitions,
		item.TimesReviewed,
		item.TimesCorrect,
		item.TimesMissed,
		lastReviewed,
		item.NextDue,
		item.Mastered,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save vocabulary item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("vocabulary item %d: %w", item.ID, ErrNotFound)
	}
	return nil
}

// DueItems returns unmastered items due at or before now, earliest first
func (r *VocabRepository) DueItems(now time.Time, limit int) ([]models.VocabularyItem, error) {
	query := "SELECT " + vocabColumns + ` FROM vocabulary
		WHERE next_due <= ? AND mastered = ?
		ORDER BY next_due ASC
		LIMIT ?`

	return r.queryItems(query, now, false, limit)
}

// NewItems returns items of a tier that have never been reviewed,
// in insertion order
func (r *VocabRepository) NewItems(tier string, limit int) ([]models.VocabularyItem, error) {
	query := "SELECT " + vocabColumns + ` FROM vocabulary
		WHERE cefr_level = ? AND times_reviewed = 0
		ORDER BY id ASC
		LIMIT ?`

	return r.queryItems(query, tier, limit)
}

// ItemsByTier returns all items of a CEFR tier
func (r *VocabRepository) ItemsByTier(tier string) ([]models.VocabularyItem, error) {
	query := "SELECT " + vocabColumns + ` FROM vocabulary
		WHERE cefr_level = ?
		ORDER BY id ASC`

	return r.queryItems(query, tier)
}

// DifficultItems returns the items with the lowest accuracy among those
// reviewed at least three times
func (r *VocabRepository) DifficultItems(limit int) ([]models.VocabularyItem, error) {
	query := "SELECT " + vocabColumns + ` FROM vocabulary
		WHERE times_reviewed >= 3
		ORDER BY (times_correct * 1.0) / times_reviewed ASC
		LIMIT ?`

	return r.queryItems(query, limit)
}

func (r *VocabRepository) queryItems(query string, args ...interface{}) ([]models.VocabularyItem, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vocabulary: %w", err)
	}
	defer rows.Close()

	var items []models.VocabularyItem
	for rows.Next() {
		item, err := scanVocabItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vocabulary item: %w", err)
		}
		items = append(items, *item)
	}

	return items, rows.Err()
}

// LearnedCount returns the number of items reviewed at least once
func (r *VocabRepository) LearnedCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM vocabulary WHERE times_reviewed > 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count learned words: %w", err)
	}
	return count, nil
}

// Stats summarizes the vocabulary collection relative to now
func (r *VocabRepository) Stats(now time.Time) (*models.VocabularyStats, error) {
	stats := &models.VocabularyStats{}

	err := r.db.QueryRow("SELECT COUNT(*) FROM vocabulary").Scan(&stats.TotalWords)
	if err != nil {
		return nil, fmt.Errorf("failed to count vocabulary: %w", err)
	}

	err = r.db.QueryRow(
		"SELECT COUNT(*) FROM vocabulary WHERE next_due <= ? AND mastered = ?",
		now, false,
	).Scan(&stats.DueReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to count due reviews: %w", err)
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM vocabulary WHERE times_reviewed = 0").Scan(&stats.NewAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to count new words: %w", err)
	}

	err = r.db.QueryRow("SELECT COUNT(*) FROM vocabulary WHERE mastered = ?", true).Scan(&stats.Mastered)
	if err != nil {
		return nil, fmt.Errorf("failed to count mastered words: %w", err)
	}

	var correct, reviewed sql.NullInt64
	err = r.db.QueryRow("SELECT SUM(times_correct), SUM(times_reviewed) FROM vocabulary").Scan(&correct, &reviewed)
	if err != nil {
		return nil, fmt.Errorf("failed to sum review counts: %w", err)
	}
	if reviewed.Valid && reviewed.Int64 > 0 {
		pct := float64(correct.Int64) / float64(reviewed.Int64) * 100
		stats.AverageAccuracy = float64(int(pct*10+0.5)) / 10
	}

	return stats, nil
}

// DueCountOn returns how many unmastered items come due on the given day
func (r *VocabRepository) DueCountOn(day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM vocabulary WHERE next_due >= ? AND next_due < ? AND mastered = ?",
		start, end, false,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count due items: %w", err)
	}
	return count, nil
}
