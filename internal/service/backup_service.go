package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"lernbuddy/internal/database"
)

// BackupData is the complete learner state as a portable JSON document.
// It is database-agnostic, so an export from sqlite imports into
// postgres or mysql unchanged.
type BackupData struct {
	Version      string              `json:"version"`
	ExportedAt   time.Time           `json:"exported_at"`
	Vocabulary   []VocabularyBackup  `json:"vocabulary"`
	Progress     *ProgressBackup     `json:"progress"`
	Sessions     []SessionBackup     `json:"sessions"`
	Activity     []ActivityBackup    `json:"daily_activity"`
	Achievements []AchievementBackup `json:"achievements"`
	Mistakes     []MistakeBackup     `json:"mistakes"`
}

// VocabularyBackup is one vocabulary row with its scheduling state
type VocabularyBackup struct {
	ID                 int64      `json:"id"`
	Word               string     `json:"word"`
	Translation        string     `json:"translation"`
	CEFRLevel          string     `json:"cefr_level"`
	PartOfSpeech       string     `json:"part_of_speech,omitempty"`
	Gender             string     `json:"gender,omitempty"`
	PluralForm         string     `json:"plural_form,omitempty"`
	ExampleSentence    string     `json:"example_sentence,omitempty"`
	ExampleTranslation string     `json:"example_translation,omitempty"`
	Source             string     `json:"source,omitempty"`
	EaseFactor         float64    `json:"ease_factor"`
	IntervalDays       int        `json:"interval_days"`
	Repetitions        int        `json:"repetitions"`
	TimesReviewed      int        `json:"times_reviewed"`
	TimesCorrect       int        `json:"times_correct"`
	TimesMissed        int        `json:"times_missed"`
	LastReviewed       *time.Time `json:"last_reviewed"`
	NextDue            time.Time  `json:"next_due"`
	Mastered           bool       `json:"mastered"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ProgressBackup is the singleton learner progress row
type ProgressBackup struct {
	TotalXP             int       `json:"total_xp"`
	Level               int       `json:"current_level"`
	StreakDays          int       `json:"streak_days"`
	LongestStreak       int       `json:"longest_streak"`
	LastActivityDate    string    `json:"last_activity_date,omitempty"`
	TotalSecondsStudied int       `json:"total_seconds_studied"`
	CEFRLevel           string    `json:"cefr_level"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SessionBackup is one learning session row
type SessionBackup struct {
	ID                 int64      `json:"id"`
	Token              string     `json:"token"`
	ActivityType       string     `json:"activity_type"`
	CEFRLevel          string     `json:"cefr_level"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at"`
	DurationSeconds    int        `json:"duration_seconds"`
	XPEarned           int        `json:"xp_earned"`
	WordsLearned       int        `json:"words_learned"`
	ExercisesCompleted int        `json:"exercises_completed"`
	MistakesMade       int        `json:"mistakes_made"`
	Notes              string     `json:"notes,omitempty"`
}

// ActivityBackup is one daily activity aggregate
type ActivityBackup struct {
	Date               string `json:"date"`
	TotalSeconds       int    `json:"total_seconds"`
	XPEarned           int    `json:"xp_earned"`
	WordsLearned       int    `json:"words_learned"`
	ExercisesCompleted int    `json:"exercises_completed"`
	SessionCount       int    `json:"sessions_count"`
	Active             bool   `json:"active"`
}

// AchievementBackup is one achievement row with its unlock state
type AchievementBackup struct {
	Name        string     `json:"name"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Requirement int        `json:"requirement_value"`
	XPReward    int        `json:"xp_reward"`
	Icon        string     `json:"icon"`
	Progress    int        `json:"progress"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
}

// MistakeBackup is one logged mistake row
type MistakeBackup struct {
	ID            int64     `json:"id"`
	SessionID     int64     `json:"session_id"`
	MistakeType   string    `json:"mistake_type"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	UserAnswer    string    `json:"user_answer,omitempty"`
	CorrectAnswer string    `json:"correct_answer,omitempty"`
	Explanation   string    `json:"explanation,omitempty"`
	GrammarRule   string    `json:"grammar_rule,omitempty"`
	CEFRLevel     string    `json:"cefr_level,omitempty"`
	Resolved      bool      `json:"resolved"`
	CreatedAt     time.Time `json:"created_at"`
}

// BackupService exports and restores the learner database as JSON
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportVocabulary(backup); err != nil {
		return fmt.Errorf("export vocabulary: %w", err)
	}
	if err := s.exportProgress(backup); err != nil {
		return fmt.Errorf("export progress: %w", err)
	}
	if err := s.exportSessions(backup); err != nil {
		return fmt.Errorf("export sessions: %w", err)
	}
	if err := s.exportActivity(backup); err != nil {
		return fmt.Errorf("export daily activity: %w", err)
	}
	if err := s.exportAchievements(backup); err != nil {
		return fmt.Errorf("export achievements: %w", err)
	}
	if err := s.exportMistakes(backup); err != nil {
		return fmt.Errorf("export mistakes: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	log.Printf("Exported %d words, %d sessions, %d activity days, %d achievements, %d mistakes to %s",
		len(backup.Vocabulary), len(backup.Sessions), len(backup.Activity),
		len(backup.Achievements), len(backup.Mistakes), outputPath)
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup stream. Sessions
// must land before mistakes so the foreign key holds.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}

	log.Printf("Importing backup version %s exported at %s", backup.Version, backup.ExportedAt)

	if err := s.importVocabulary(backup.Vocabulary); err != nil {
		return fmt.Errorf("import vocabulary: %w", err)
	}
	if err := s.importProgress(backup.Progress); err != nil {
		return fmt.Errorf("import progress: %w", err)
	}
	if err := s.importSessions(backup.Sessions); err != nil {
		return fmt.Errorf("import sessions: %w", err)
	}
	if err := s.importActivity(backup.Activity); err != nil {
		return fmt.Errorf("import daily activity: %w", err)
	}
	if err := s.importAchievements(backup.Achievements); err != nil {
		return fmt.Errorf("import achievements: %w", err)
	}
	if err := s.importMistakes(backup.Mistakes); err != nil {
		return fmt.Errorf("import mistakes: %w", err)
	}

	log.Println("Database import completed")
	return nil
}

func (s *BackupService) exportVocabulary(backup *BackupData) error {
	query := `SELECT id, word, translation, cefr_level, part_of_speech, gender, plural_form,
		example_sentence, example_translation, source, ease_factor, interval_days, repetitions,
		times_reviewed, times_correct, times_missed, last_reviewed, next_due, mastered, created_at
		FROM vocabulary ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var v VocabularyBackup
		if err := rows.Scan(&v.ID, &v.Word, &v.Translation, &v.CEFRLevel, &v.PartOfSpeech,
			&v.Gender, &v.PluralForm, &v.ExampleSentence, &v.ExampleTranslation, &v.Source,
			&v.EaseFactor, &v.IntervalDays, &v.Repetitions, &v.TimesReviewed, &v.TimesCorrect,
			&v.TimesMissed, &v.LastReviewed, &v.NextDue, &v.Mastered, &v.CreatedAt); err != nil {
			return err
		}
		backup.Vocabulary = append(backup.Vocabulary, v)
	}
	return rows.Err()
}

func (s *BackupService) exportProgress(backup *BackupData) error {
	query := `SELECT total_xp, current_level, streak_days, longest_streak,
		COALESCE(last_activity_date, ''), total_seconds_studied, cefr_level, created_at, updated_at
		FROM user_progress WHERE id = 1`
	var p ProgressBackup
	err := s.db.QueryRow(query).Scan(&p.TotalXP, &p.Level, &p.StreakDays, &p.LongestStreak,
		&p.LastActivityDate, &p.TotalSecondsStudied, &p.CEFRLevel, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		// A fresh database has no progress row yet.
		return nil
	}
	backup.Progress = &p
	return nil
}

func (s *BackupService) exportSessions(backup *BackupData) error {
	query := `SELECT id, token, activity_type, cefr_level, started_at, ended_at, duration_seconds,
		xp_earned, words_learned, exercises_completed, mistakes_made, notes
		FROM learning_sessions ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sess SessionBackup
		if err := rows.Scan(&sess.ID, &sess.Token, &sess.ActivityType, &sess.CEFRLevel,
			&sess.StartedAt, &sess.EndedAt, &sess.DurationSeconds, &sess.XPEarned,
			&sess.WordsLearned, &sess.ExercisesCompleted, &sess.MistakesMade, &sess.Notes); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, sess)
	}
	return rows.Err()
}

func (s *BackupService) exportActivity(backup *BackupData) error {
	query := `SELECT date, total_seconds, xp_earned, words_learned, exercises_completed,
		sessions_count, active FROM daily_activity ORDER BY date`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a ActivityBackup
		if err := rows.Scan(&a.Date, &a.TotalSeconds, &a.XPEarned, &a.WordsLearned,
			&a.ExercisesCompleted, &a.SessionCount, &a.Active); err != nil {
			return err
		}
		backup.Activity = append(backup.Activity, a)
	}
	return rows.Err()
}

func (s *BackupService) exportAchievements(backup *BackupData) error {
	query := `SELECT name, title, description, category, requirement_value, xp_reward, icon,
		progress, unlocked, unlocked_at FROM achievements ORDER BY name`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AchievementBackup
		if err := rows.Scan(&a.Name, &a.Title, &a.Description, &a.Category, &a.Requirement,
			&a.XPReward, &a.Icon, &a.Progress, &a.Unlocked, &a.UnlockedAt); err != nil {
			return err
		}
		backup.Achievements = append(backup.Achievements, a)
	}
	return rows.Err()
}

func (s *BackupService) exportMistakes(backup *BackupData) error {
	query := `SELECT id, session_id, mistake_type, category, subcategory, user_answer,
		correct_answer, explanation, grammar_rule, cefr_level, resolved, created_at
		FROM mistakes ORDER BY id`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MistakeBackup
		if err := rows.Scan(&m.ID, &m.SessionID, &m.MistakeType, &m.Category, &m.Subcategory,
			&m.UserAnswer, &m.CorrectAnswer, &m.Explanation, &m.GrammarRule, &m.CEFRLevel,
			&m.Resolved, &m.CreatedAt); err != nil {
			return err
		}
		backup.Mistakes = append(backup.Mistakes, m)
	}
	return rows.Err()
}

func (s *BackupService) importVocabulary(items []VocabularyBackup) error {
	log.Printf("Importing %d vocabulary items...", len(items))
	for _, v := range items {
		query := `INSERT INTO vocabulary (id, word, translation, cefr_level, part_of_speech,
			gender, plural_form, example_sentence, example_translation, source, ease_factor,
			interval_days, repetitions, times_reviewed, times_correct, times_missed,
			last_reviewed, next_due, mastered, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, v.ID, v.Word, v.Translation, v.CEFRLevel, v.PartOfSpeech,
			v.Gender, v.PluralForm, v.ExampleSentence, v.ExampleTranslation, v.Source,
			v.EaseFactor, v.IntervalDays, v.Repetitions, v.TimesReviewed, v.TimesCorrect,
			v.TimesMissed, v.LastReviewed, v.NextDue, v.Mastered, v.CreatedAt)
		if err != nil {
			return fmt.Errorf("word %q: %w", v.Word, err)
		}
	}
	return nil
}

func (s *BackupService) importProgress(p *ProgressBackup) error {
	if p == nil {
		return nil
	}
	log.Println("Importing learner progress...")

	var lastActivity interface{}
	if p.LastActivityDate != "" {
		lastActivity = p.LastActivityDate
	}
	query := `INSERT INTO user_progress (id, total_xp, current_level, streak_days, longest_streak,
		last_activity_date, total_seconds_studied, cefr_level, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, p.TotalXP, p.Level, p.StreakDays, p.LongestStreak,
		lastActivity, p.TotalSecondsStudied, p.CEFRLevel, p.CreatedAt, p.UpdatedAt)
	return err
}

func (s *BackupService) importSessions(sessions []SessionBackup) error {
	log.Printf("Importing %d sessions...", len(sessions))
	for _, sess := range sessions {
		query := `INSERT INTO learning_sessions (id, token, activity_type, cefr_level, started_at,
			ended_at, duration_seconds, xp_earned, words_learned, exercises_completed,
			mistakes_made, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, sess.ID, sess.Token, sess.ActivityType, sess.CEFRLevel,
			sess.StartedAt, sess.EndedAt, sess.DurationSeconds, sess.XPEarned,
			sess.WordsLearned, sess.ExercisesCompleted, sess.MistakesMade, sess.Notes)
		if err != nil {
			return fmt.Errorf("session %d: %w", sess.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importActivity(days []ActivityBackup) error {
	log.Printf("Importing %d activity days...", len(days))
	for _, a := range days {
		query := `INSERT INTO daily_activity (date, total_seconds, xp_earned, words_learned,
			exercises_completed, sessions_count, active) VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, a.Date, a.TotalSeconds, a.XPEarned, a.WordsLearned,
			a.ExercisesCompleted, a.SessionCount, a.Active)
		if err != nil {
			return fmt.Errorf("day %s: %w", a.Date, err)
		}
	}
	return nil
}

func (s *BackupService) importAchievements(achievements []AchievementBackup) error {
	log.Printf("Importing %d achievements...", len(achievements))
	for _, a := range achievements {
		query := `INSERT INTO achievements (name, title, description, category, requirement_value,
			xp_reward, icon, progress, unlocked, unlocked_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, a.Name, a.Title, a.Description, a.Category, a.Requirement,
			a.XPReward, a.Icon, a.Progress, a.Unlocked, a.UnlockedAt)
		if err != nil {
			return fmt.Errorf("achievement %q: %w", a.Name, err)
		}
	}
	return nil
}

func (s *BackupService) importMistakes(mistakes []MistakeBackup) error {
	log.Printf("Importing %d mistakes...", len(mistakes))
	for _, m := range mistakes {
		query := `INSERT INTO mistakes (id, session_id, mistake_type, category, subcategory,
			user_answer, correct_answer, explanation, grammar_rule, cefr_level, resolved, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := s.db.Exec(query, m.ID, m.SessionID, m.MistakeType, m.Category, m.Subcategory,
			m.UserAnswer, m.CorrectAnswer, m.Explanation, m.GrammarRule, m.CEFRLevel,
			m.Resolved, m.CreatedAt)
		if err != nil {
			return fmt.Errorf("mistake %d: %w", m.ID, err)
		}
	}
	return nil
}
