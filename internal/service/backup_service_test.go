package service

import (
	"path/filepath"
	"testing"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
	"lernbuddy/internal/repository"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	return db
}

func TestBackupRoundTrip(t *testing.T) {
	source := newTestDB(t)

	vocab := repository.NewVocabRepository(source)
	progress := repository.NewProgressRepository(source)
	sessions := repository.NewSessionRepository(source)
	activity := repository.NewActivityRepository(source)
	achievements := repository.NewAchievementRepository(source)
	mistakes := repository.NewMistakeRepository(source)

	for _, word := range []string{"Haus", "Katze", "laufen"} {
		item := &models.VocabularyItem{Word: word, Translation: "x", CEFRLevel: models.TierA1}
		if err := vocab.Create(item); err != nil {
			t.Fatalf("create %s: %v", word, err)
		}
	}

	p, err := progress.Progress()
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	p.TotalXP = 1842
	p.Level = 7
	p.StreakDays = 6
	if err := progress.SaveProgress(p); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	sess, err := sessions.Create(models.ActivityVocabulary, models.TierA1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	ended := sess.StartedAt.Add(15 * time.Minute)
	sess.EndedAt = &ended
	sess.DurationSeconds = 900
	sess.XPEarned = 60
	if err := sessions.Complete(sess); err != nil {
		t.Fatalf("complete session: %v", err)
	}

	if err := activity.Record("2026-03-10", models.DailyActivity{TotalSeconds: 900, XPEarned: 60}); err != nil {
		t.Fatalf("record activity: %v", err)
	}

	if err := achievements.InsertIfAbsent(&models.Achievement{
		Name: "first_step", Title: "First Step",
		Category: models.CategoryMilestone, Requirement: 1, XPReward: 50,
	}); err != nil {
		t.Fatalf("insert achievement: %v", err)
	}

	if err := mistakes.Log(&models.Mistake{
		SessionID: sess.ID, MistakeType: "vocabulary", Category: "recall",
	}); err != nil {
		t.Fatalf("log mistake: %v", err)
	}

	backupPath := filepath.Join(t.TempDir(), "backup.json")
	if err := NewBackupService(source).Export(backupPath); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	target := newTestDB(t)
	if err := NewBackupService(target).Import(backupPath); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	counts := map[string]int{
		"vocabulary":        3,
		"learning_sessions": 1,
		"daily_activity":    1,
		"achievements":      1,
		"mistakes":          1,
	}
	for table, want := range counts {
		var got int
		if err := target.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s = %d rows, want %d", table, got, want)
		}
	}

	restored, err := repository.NewProgressRepository(target).Progress()
	if err != nil {
		t.Fatalf("restored progress: %v", err)
	}
	if restored.TotalXP != 1842 || restored.Level != 7 || restored.StreakDays != 6 {
		t.Errorf("restored progress = %+v", restored)
	}
}
