package repository

import (
	"database/sql"
	"fmt"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// ActivityRepository handles the per-day activity log
type ActivityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Record adds a session's totals to the day's activity record, creating the
// record on the first activity of the date. The additive update keeps
// concurrent increments from losing counts.
func (r *ActivityRepository) Record(date string, delta models.DailyActivity) error {
	update := `
		UPDATE daily_activity
		SET total_seconds = total_seconds + ?,
			xp_earned = xp_earned + ?,
			words_learned = words_learned + ?,
			exercises_completed = exercises_completed + ?,
			sessions_count = sessions_count + 1,
			active = ?
		WHERE date = ?
	`
	result, err := r.db.Exec(update,
		delta.TotalSeconds,
		delta.XPEarned,
		delta.WordsLearned,
		delta.ExercisesCompleted,
		true,
		date,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily activity: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows > 0 {
		return nil
	}

	insert := `
		INSERT INTO daily_activity
			(date, total_seconds, xp_earned, words_learned, exercises_completed, sessions_count, active)
		VALUES (?, ?, ?, ?, ?, 1, ?)
	`
	_, err = r.db.Exec(insert,
		date,
		delta.TotalSeconds,
		delta.XPEarned,
		delta.WordsLearned,
		delta.ExercisesCompleted,
		true,
	)
	if err != nil {
		return fmt.Errorf("failed to insert daily activity: %w", err)
	}
	return nil
}

// ActivityOn returns the activity record for a date
func (r *ActivityRepository) ActivityOn(date string) (*models.DailyActivity, error) {
	query := `
		SELECT date, total_seconds, xp_earned, words_learned,
		       exercises_completed, sessions_count, active
		FROM daily_activity
		WHERE date = ?
	`

	activity := &models.DailyActivity{}
	err := r.db.QueryRow(query, date).Scan(
		&activity.Date,
		&activity.TotalSeconds,
		&activity.XPEarned,
		&activity.WordsLearned,
		&activity.ExercisesCompleted,
		&activity.SessionCount,
		&activity.Active,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("daily activity %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily activity: %w", err)
	}
	return activity, nil
}

// Recent returns the most recent activity records, newest first
func (r *ActivityRepository) Recent(limit int) ([]models.DailyActivity, error) {
	query := `
		SELECT date, total_seconds, xp_earned, words_learned,
		       exercises_completed, sessions_count, active
		FROM daily_activity
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily activity: %w", err)
	}
	defer rows.Close()

	var records []models.DailyActivity
	for rows.Next() {
		var activity models.DailyActivity
		err := rows.Scan(
			&activity.Date,
			&activity.TotalSeconds,
			&activity.XPEarned,
			&activity.WordsLearned,
			&activity.ExercisesCompleted,
			&activity.SessionCount,
			&activity.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily activity: %w", err)
		}
		records = append(records, activity)
	}

	return records, rows.Err()
}
