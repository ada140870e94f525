package repository

import (
	"database/sql"
	"fmt"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// progressRowID is the fixed primary key of the singleton progress row
const progressRowID = 1

// ProgressRepository handles the single learner's progress record
type ProgressRepository struct {
	db *database.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *database.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Progress returns the learner's progress, creating the default record on
// first use
func (r *ProgressRepository) Progress() (*models.UserProgress, error) {
	query := `
		SELECT total_xp, current_level, streak_days, longest_streak,
		       last_activity_date, total_seconds_studied, cefr_level,
		       created_at, updated_at
		FROM user_progress
		WHERE id = ?
	`

	progress := &models.UserProgress{}
	var lastActivity sql.NullString

	err := r.db.QueryRow(query, progressRowID).Scan(
		&progress.TotalXP,
		&progress.Level,
		&progress.StreakDays,
		&progress.LongestStreak,
		&lastActivity,
		&progress.TotalSecondsStudied,
		&progress.CEFRLevel,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return r.createDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}

	if lastActivity.Valid && lastActivity.String != "" {
		day, err := time.Parse("2006-01-02", lastActivity.String)
		if err != nil {
			return nil, fmt.Errorf("invalid last activity date %q: %w", lastActivity.String, err)
		}
		progress.LastActivity = &day
	}

	return progress, nil
}

func (r *ProgressRepository) createDefault() (*models.UserProgress, error) {
	now := time.Now()
	progress := &models.UserProgress{
		Level:     1,
		CEFRLevel: models.TierA1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO user_progress (id, total_xp, current_level, streak_days,
			longest_streak, total_seconds_studied, cefr_level, created_at, updated_at)
		VALUES (?, 0, 1, 0, 0, 0, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, progressRowID, progress.CEFRLevel, now, now); err != nil {
		return nil, fmt.Errorf("failed to create user progress: %w", err)
	}

	return progress, nil
}

// SaveProgress persists the learner's progress record
func (r *ProgressRepository) SaveProgress(progress *models.UserProgress) error {
	var lastActivity interface{}
	if progress.LastActivity != nil {
		lastActivity = progress.LastActivity.Format("2006-01-02")
	}

	progress.UpdatedAt = time.Now()

	query := `
		UPDATE user_progress
		SET total_xp = ?, current_level = ?, streak_days = ?,
			longest_streak = ?, last_activity_date = ?,
			total_seconds_studied = ?, cefr_level = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		progress.TotalXP,
		progress.Level,
		progress.StreakDays,
		progress.LongestStreak,
		lastActivity,
		progress.TotalSecondsStudied,
		progress.CEFRLevel,
		progress.UpdatedAt,
		progressRowID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user progress: %w", err)
	}
	return nil
}
