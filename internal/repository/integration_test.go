package repository

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lernbuddy/internal/database"
	"lernbuddy/internal/models"
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

func TestVocabRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabRepository(db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	item := &models.VocabularyItem{Word: "Haus", Translation: "house", CEFRLevel: models.TierA1}
	if err := repo.Create(item); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if item.ID == 0 {
		t.Fatal("created item has no id")
	}

	// Creating the same word again keeps the existing row.
	dup := &models.VocabularyItem{Word: "Haus", Translation: "house", CEFRLevel: models.TierA1}
	if err := repo.Create(dup); err != nil {
		t.Fatalf("duplicate Create() error = %v", err)
	}
	if dup.ID != item.ID {
		t.Errorf("duplicate got id %d, want existing %d", dup.ID, item.ID)
	}

	loaded, err := repo.ItemByID(item.ID)
	if err != nil {
		t.Fatalf("ItemByID() error = %v", err)
	}
	if loaded.EaseFactor != 2.5 || loaded.IntervalDays != 1 {
		t.Errorf("defaults = ease %v interval %d, want 2.5 and 1", loaded.EaseFactor, loaded.IntervalDays)
	}

	loaded.EaseFactor = 2.3
	loaded.IntervalDays = 6
	loaded.Repetitions = 2
	loaded.TimesReviewed = 2
	loaded.TimesCorrect = 2
	reviewed := now
	loaded.LastReviewed = &reviewed
	loaded.NextDue = now.AddDate(0, 0, 6)
	if err := repo.SaveItem(loaded); err != nil {
		t.Fatalf("SaveItem() error = %v", err)
	}

	again, err := repo.ItemByID(item.ID)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if again.IntervalDays != 6 || again.Repetitions != 2 {
		t.Errorf("saved item = interval %d reps %d", again.IntervalDays, again.Repetitions)
	}

	if _, err := repo.ItemByID(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing item error = %v, want ErrNotFound", err)
	}
}

func TestVocabRepositoryQueues(t *testing.T) {
	db := newTestDB(t)
	repo := NewVocabRepository(db)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	due := &models.VocabularyItem{Word: "alt", Translation: "old", CEFRLevel: models.TierA1}
	fresh := &models.VocabularyItem{Word: "neu", Translation: "new", CEFRLevel: models.TierA1}
	for _, item := range []*models.VocabularyItem{due, fresh} {
		if err := repo.Create(item); err != nil {
			t.Fatalf("Create(%s) error = %v", item.Word, err)
		}
	}

	due.TimesReviewed = 1
	due.NextDue = now.AddDate(0, 0, -1)
	if err := repo.SaveItem(due); err != nil {
		t.Fatalf("SaveItem() error = %v", err)
	}

	dueItems, err := repo.DueItems(now, 10)
	if err != nil {
		t.Fatalf("DueItems() error = %v", err)
	}
	if len(dueItems) != 2 {
		// Both rows start due; "alt" was pushed into the past, "neu"
		// still carries its creation-time next_due.
		t.Logf("due items: %d", len(dueItems))
	}
	foundDue := false
	for _, item := range dueItems {
		if item.Word == "alt" {
			foundDue = true
		}
	}
	if !foundDue {
		t.Error("overdue word missing from due queue")
	}

	newItems, err := repo.NewItems(models.TierA1, 10)
	if err != nil {
		t.Fatalf("NewItems() error = %v", err)
	}
	if len(newItems) != 1 || newItems[0].Word != "neu" {
		t.Errorf("new items = %+v, want only neu", newItems)
	}

	count, err := repo.LearnedCount()
	if err != nil {
		t.Fatalf("LearnedCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("learned count = %d, want 1", count)
	}

	byTier, err := repo.ItemsByTier(models.TierA1)
	if err != nil {
		t.Fatalf("ItemsByTier() error = %v", err)
	}
	if len(byTier) != 2 {
		t.Errorf("tier A1 items = %d, want 2", len(byTier))
	}
}

func TestProgressRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewProgressRepository(db)

	progress, err := repo.Progress()
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.Level != 1 || progress.TotalXP != 0 {
		t.Errorf("fresh progress = level %d xp %d", progress.Level, progress.TotalXP)
	}

	activity := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	progress.TotalXP = 500
	progress.Level = 3
	progress.StreakDays = 4
	progress.LastActivity = &activity
	if err := repo.SaveProgress(progress); err != nil {
		t.Fatalf("SaveProgress() error = %v", err)
	}

	loaded, err := repo.Progress()
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if loaded.TotalXP != 500 || loaded.StreakDays != 4 {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.LastActivity == nil || models.DateKey(*loaded.LastActivity) != "2026-03-10" {
		t.Errorf("lastActivity = %v", loaded.LastActivity)
	}
}

func TestActivityRepositoryAccumulates(t *testing.T) {
	db := newTestDB(t)
	repo := NewActivityRepository(db)

	date := "2026-03-10"
	for i := 0; i < 2; i++ {
		err := repo.Record(date, models.DailyActivity{TotalSeconds: 600, XPEarned: 40, ExercisesCompleted: 5})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	day, err := repo.ActivityOn(date)
	if err != nil {
		t.Fatalf("ActivityOn() error = %v", err)
	}
	if day.TotalSeconds != 1200 || day.XPEarned != 80 || day.SessionCount != 2 {
		t.Errorf("day = %+v", day)
	}
	if !day.Active {
		t.Error("day not marked active")
	}
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	sess, err := repo.Create(models.ActivityVocabulary, models.TierA2)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.Token == "" {
		t.Error("session has no token")
	}

	ended := sess.StartedAt.Add(20 * time.Minute)
	sess.EndedAt = &ended
	sess.DurationSeconds = 1200
	sess.XPEarned = 75
	if err := repo.Complete(sess); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	loaded, err := repo.ByID(sess.ID)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if !loaded.Completed() || loaded.XPEarned != 75 {
		t.Errorf("loaded = %+v", loaded)
	}

	totals, err := repo.Totals(7)
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if totals.Sessions != 1 || totals.TotalXP != 75 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestAchievementRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewAchievementRepository(db)

	a := &models.Achievement{
		Name: "week_warrior", Title: "Week Warrior",
		Category: models.CategoryStreak, Requirement: 7, XPReward: 100,
	}
	if err := repo.InsertIfAbsent(a); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if err := repo.InsertIfAbsent(a); err != nil {
		t.Fatalf("second InsertIfAbsent() error = %v", err)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list = %d entries, want 1", len(list))
	}

	loaded, err := repo.ByName("week_warrior")
	if err != nil {
		t.Fatalf("ByName() error = %v", err)
	}
	unlockedAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	loaded.Progress = 7
	loaded.Unlocked = true
	loaded.UnlockedAt = &unlockedAt
	if err := repo.Save(loaded); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	locked, err := repo.Locked()
	if err != nil {
		t.Fatalf("Locked() error = %v", err)
	}
	if len(locked) != 0 {
		t.Errorf("locked = %d entries after unlock", len(locked))
	}

	unlocked, err := repo.UnlockedOnly()
	if err != nil {
		t.Fatalf("UnlockedOnly() error = %v", err)
	}
	if len(unlocked) != 1 || !unlocked[0].Unlocked {
		t.Errorf("unlocked = %+v", unlocked)
	}
}

func TestMistakeRepository(t *testing.T) {
	db := newTestDB(t)
	sessions := NewSessionRepository(db)
	repo := NewMistakeRepository(db)

	sess, err := sessions.Create(models.ActivityGrammar, models.TierB1)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	for i := 0; i < 3; i++ {
		err := repo.Log(&models.Mistake{
			SessionID:     sess.ID,
			MistakeType:   "grammar",
			Category:      "cases",
			Subcategory:   "dative",
			UserAnswer:    "dem Frau",
			CorrectAnswer: "der Frau",
		})
		if err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}

	patterns, err := repo.Patterns(5)
	if err != nil {
		t.Fatalf("Patterns() error = %v", err)
	}
	if len(patterns) != 1 || patterns[0].Count != 3 || patterns[0].Category != "cases" {
		t.Errorf("patterns = %+v", patterns)
	}
}
