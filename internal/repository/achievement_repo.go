package repository

import (
	"database/sql"
	"fmt"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
)

// AchievementRepository handles database operations for achievements
type AchievementRepository struct {
	db *database.DB
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

const achievementColumns = `id, name, title, description, category,
	requirement_value, xp_reward, icon, progress, unlocked, unlocked_at`

func scanAchievement(row rowScanner) (*models.Achievement, error) {
	a := &models.Achievement{}
	var unlockedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Title,
		&a.Description,
		&a.Category,
		&a.Requirement,
		&a.XPReward,
		&a.Icon,
		&a.Progress,
		&a.Unlocked,
		&unlockedAt,
	)
	if err != nil {
		return nil, err
	}

	if unlockedAt.Valid {
		a.UnlockedAt = &unlockedAt.Time
	}
	return a, nil
}

// InsertIfAbsent adds a catalog entry unless one with the same name exists
func (r *AchievementRepository) InsertIfAbsent(a *models.Achievement) error {
	var existingID int64
	err := r.db.QueryRow("SELECT id FROM achievements WHERE name = ?", a.Name).Scan(&existingID)
	if err == nil {
		a.ID = existingID
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check achievement %s: %w", a.Name, err)
	}

	query := `
		INSERT INTO achievements (name, title, description, category,
			requirement_value, xp_reward, icon, progress, unlocked)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
	`
	id, err := r.db.ExecReturningID(query,
		a.Name, a.Title, a.Description, a.Category,
		a.Requirement, a.XPReward, a.Icon, false,
	)
	if err != nil {
		return fmt.Errorf("failed to insert achievement %s: %w", a.Name, err)
	}

	a.ID = id
	return nil
}

// ByName retrieves an achievement by its unique name
func (r *AchievementRepository) ByName(name string) (*models.Achievement, error) {
	query := "SELECT " + achievementColumns + " FROM achievements WHERE name = ?"
	a, err := scanAchievement(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("achievement %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement: %w", err)
	}
	return a, nil
}

// List returns all achievements, unlocked first, then by ascending requirement
func (r *AchievementRepository) List() ([]models.Achievement, error) {
	query := "SELECT " + achievementColumns + ` FROM achievements
		ORDER BY unlocked DESC, requirement_value ASC`
	return r.queryAchievements(query)
}

// Locked returns achievements not yet unlocked, easiest requirement first
func (r *AchievementRepository) Locked() ([]models.Achievement, error) {
	query := "SELECT " + achievementColumns + ` FROM achievements
		WHERE unlocked = ?
		ORDER BY requirement_value ASC`
	return r.queryAchievements(query, false)
}

// UnlockedOnly returns unlocked achievements by ascending requirement
func (r *AchievementRepository) UnlockedOnly() ([]models.Achievement, error) {
	query := "SELECT " + achievementColumns + ` FROM achievements
		WHERE unlocked = ?
		ORDER BY requirement_value ASC`
	return r.queryAchievements(query, true)
}

func (r *AchievementRepository) queryAchievements(query string, args ...interface{}) ([]models.Achievement, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, *a)
	}

	return achievements, rows.Err()
}

// Save persists an achievement's progress and unlock state
func (r *AchievementRepository) Save(a *models.Achievement) error {
	var unlockedAt interface{}
	if a.UnlockedAt != nil {
		unlockedAt = *a.UnlockedAt
	}

	query := `
		UPDATE achievements
		SET progress = ?, unlocked = ?, unlocked_at = ?
		WHERE name = ?
	`
	result, err := r.db.Exec(query, a.Progress, a.Unlocked, unlockedAt, a.Name)
	if err != nil {
		return fmt.Errorf("failed to save achievement %s: %w", a.Name, err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return fmt.Errorf("achievement %s: %w", a.Name, ErrNotFound)
	}
	return nil
}
