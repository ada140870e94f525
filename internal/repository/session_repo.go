package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// SessionRepository handles learning session database operations
type SessionRepository struct {
	db *database.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create opens a new learning session with an opaque token
func (r *SessionRepository) Create(activityType, tier string) (*models.LearningSession, error) {
	session := &models.LearningSession{
		Token:        uuid.New().String(),
		ActivityType: activityType,
		CEFRLevel:    tier,
		StartedAt:    time.Now(),
	}

	query := `
		INSERT INTO learning_sessions (token, activity_type, cefr_level, started_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		session.Token, session.ActivityType, session.CEFRLevel, session.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session.ID = id
	return session, nil
}

// ByID retrieves a learning session by ID
func (r *SessionRepository) ByID(id int64) (*models.LearningSession, error) {
	query := `
		SELECT id, token, activity_type, cefr_level, started_at, ended_at,
		       duration_seconds, xp_earned, words_learned, exercises_completed,
		       mistakes_made, notes
		FROM learning_sessions
		WHERE id = ?
	`

	session := &models.LearningSession{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(query, id).Scan(
		&session.ID,
		&session.Token,
		&session.ActivityType,
		&session.CEFRLevel,
		&session.StartedAt,
		&endedAt,
		&session.DurationSeconds,
		&session.XPEarned,
		&session.WordsLearned,
		&session.ExercisesCompleted,
		&session.MistakesMade,
		&session.Notes,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if endedAt.Valid {
		session.EndedAt = &endedAt.Time
	}
	return session, nil
}

// Complete finalizes a session's end time, duration and totals
func (r *SessionRepository) Complete(session *models.LearningSession) error {
	if session.EndedAt == nil {
		return fmt.Errorf("session %d has no end time", session.ID)
	}

	query := `
		UPDATE learning_sessions
		SET ended_at = ?, duration_seconds = ?, xp_earned = ?,
			words_learned = ?, exercises_completed = ?, mistakes_made = ?, notes = ?
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		*session.EndedAt,
		session.DurationSeconds,
		session.XPEarned,
		session.WordsLearned,
		session.ExercisesCompleted,
		session.MistakesMade,
		session.Notes,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("session %d: %w", session.ID, ErrNotFound)
	}
	return nil
}

// Totals aggregates the sessions started in the last N days
func (r *SessionRepository) Totals(days int) (*models.SessionTotals, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_seconds), 0),
		       COALESCE(SUM(xp_earned), 0),
		       COALESCE(SUM(words_learned), 0),
		       COALESCE(SUM(exercises_completed), 0),
		       COALESCE(AVG(duration_seconds), 0)
		FROM learning_sessions
		WHERE started_at >= ?
	`

	totals := &models.SessionTotals{}
	err := r.db.QueryRow(query, cutoff).Scan(
		&totals.Sessions,
		&totals.TotalSeconds,
		&totals.TotalXP,
		&totals.WordsLearned,
		&totals.ExercisesCompleted,
		&totals.AvgDurationSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}
	return totals, nil
}
