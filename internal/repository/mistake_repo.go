package repository

import (
	"fmt"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// MistakeRepository handles mistake logging for pattern analysis
type MistakeRepository struct {
	db *database.DB
}

// NewMistakeRepository creates a new mistake repository
func NewMistakeRepository(db *database.DB) *MistakeRepository {
	return &MistakeRepository{db: db}
}

// Log records a mistake made during a session
func (r *MistakeRepository) Log(m *models.Mistake) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO mistakes (session_id, mistake_type, category, subcategory,
			user_answer, correct_answer, explanation, grammar_rule, cefr_level,
			resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		m.SessionID,
		m.MistakeType,
		m.Category,
		m.Subcategory,
		m.UserAnswer,
		m.CorrectAnswer,
		m.Explanation,
		m.GrammarRule,
		m.CEFRLevel,
		m.Resolved,
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log mistake: %w", err)
	}

	m.ID = id
	return nil
}

// Patterns returns the most common unresolved mistake categories
func (r *MistakeRepository) Patterns(limit int) ([]models.MistakePattern, error) {
	query := `
		SELECT category, subcategory, COUNT(*)
		FROM mistakes
		WHERE resolved = ?
		GROUP BY category, subcategory
		ORDER BY COUNT(*) DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, false, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mistake patterns: %w", err)
	}
	defer rows.Close()

	var patterns []models.MistakePattern
	for rows.Next() {
		var p models.MistakePattern
		if err := rows.Scan(&p.Category, &p.Subcategory, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan mistake pattern: %w", err)
		}
		patterns = append(patterns, p)
	}

	return patterns, rows.Err()
}
