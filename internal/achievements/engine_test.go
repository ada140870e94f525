package achievements

import (
	"testing"
	"time"

	"lernbuddy/internal/config"
	"lernbuddy/internal/models"
)

type fakeStore struct {
	achievements map[string]*models.Achievement
	order        []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{achievements: make(map[string]*models.Achievement)}
}

func (s *fakeStore) InsertIfAbsent(a *models.Achievement) error {
	if _, ok := s.achievements[a.Name]; ok {
		return nil
	}
	copied := *a
	s.achievements[a.Name] = &copied
	s.order = append(s.order, a.Name)
	return nil
}

func (s *fakeStore) List() ([]models.Achievement, error) {
	var out []models.Achievement
	for _, name := range s.order {
		out = append(out, *s.achievements[name])
	}
	return out, nil
}

func (s *fakeStore) Locked() ([]models.Achievement, error) {
	var out []models.Achievement
	for _, name := range s.order {
		if !s.achievements[name].Unlocked {
			out = append(out, *s.achievements[name])
		}
	}
	return out, nil
}

func (s *fakeStore) UnlockedOnly() ([]models.Achievement, error) {
	var out []models.Achievement
	for _, name := range s.order {
		if s.achievements[name].Unlocked {
			out = append(out, *s.achievements[name])
		}
	}
	return out, nil
}

func (s *fakeStore) Save(a *models.Achievement) error {
	copied := *a
	s.achievements[a.Name] = &copied
	return nil
}

type fakeProgress struct {
	progress models.UserProgress
}

func (p *fakeProgress) Progress() (*models.UserProgress, error) {
	copied := p.progress
	return &copied, nil
}

type fakeVocab struct {
	learned int
}

func (v *fakeVocab) LearnedCount() (int, error) {
	return v.learned, nil
}

func seededEngine(t *testing.T, progress models.UserProgress, learned int) (*Engine, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	engine := NewEngine(store, &fakeProgress{progress: progress}, &fakeVocab{learned: learned})
	if err := engine.Seed(config.AchievementCatalog()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return engine, store
}

func names(achievements []models.Achievement) map[string]bool {
	out := make(map[string]bool, len(achievements))
	for _, a := range achievements {
		out[a.Name] = true
	}
	return out
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store, &fakeProgress{}, &fakeVocab{})

	catalog := config.AchievementCatalog()
	if err := engine.Seed(catalog); err != nil {
		t.Fatalf("first Seed() error = %v", err)
	}

	// Simulate earned progress surviving a reseed.
	store.achievements["week_warrior"].Progress = 5

	if err := engine.Seed(catalog); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if len(store.order) != len(catalog) {
		t.Errorf("store holds %d achievements, want %d", len(store.order), len(catalog))
	}
	if store.achievements["week_warrior"].Progress != 5 {
		t.Error("reseed reset existing progress")
	}
}

func TestRefreshUnlocksOnce(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	engine, store := seededEngine(t, models.UserProgress{StreakDays: 2}, 100)

	unlocked, err := engine.Refresh(now, ExternalCounters{})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	got := names(unlocked)
	if !got["wordsmith_100"] {
		t.Fatal("wordsmith_100 not unlocked at 100 learned words")
	}

	saved := store.achievements["wordsmith_100"]
	if saved.Progress != saved.Requirement {
		t.Errorf("unlocked progress = %d, want pinned to %d", saved.Progress, saved.Requirement)
	}
	if saved.UnlockedAt == nil || !saved.UnlockedAt.Equal(now) {
		t.Errorf("unlockedAt = %v, want %v", saved.UnlockedAt, now)
	}

	again, err := engine.Refresh(now.Add(time.Hour), ExternalCounters{})
	if err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	if names(again)["wordsmith_100"] {
		t.Error("wordsmith_100 unlocked a second time")
	}
}

func TestRefreshProgressNeverDecreases(t *testing.T) {
	now := time.Now()
	progress := &fakeProgress{progress: models.UserProgress{StreakDays: 5}}
	store := newFakeStore()
	engine := NewEngine(store, progress, &fakeVocab{})
	if err := engine.Seed(config.AchievementCatalog()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if _, err := engine.Refresh(now, ExternalCounters{}); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := store.achievements["week_warrior"].Progress; got != 5 {
		t.Fatalf("progress = %d, want 5", got)
	}

	// The streak broke; the best run so far stays recorded.
	progress.progress.StreakDays = 1
	if _, err := engine.Refresh(now, ExternalCounters{}); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := store.achievements["week_warrior"].Progress; got != 5 {
		t.Errorf("progress dropped to %d after streak reset", got)
	}
}

func TestRefreshCategories(t *testing.T) {
	now := time.Now()
	progress := models.UserProgress{
		StreakDays:          7,
		TotalSecondsStudied: 600 * 60, // 600 minutes
	}
	engine, _ := seededEngine(t, progress, 0)

	ext := ExternalCounters{
		WritingCompleted:  50,
		ExamsPassed:       map[string]int{models.TierB1: 1},
		PerfectScores:     10,
		SessionsCompleted: 1,
	}
	unlocked, err := engine.Refresh(now, ext)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	got := names(unlocked)
	for _, want := range []string{
		"week_warrior",     // 7-day streak
		"chatterbox_10",    // 600 minutes of practice
		"dedicated_10",     // 600 minutes studied
		"author_50",        // 50 writing exercises
		"exam_b1",          // B1 exam passed
		"perfectionist_10", // 10 perfect scores
		"first_step",       // first session
	} {
		if !got[want] {
			t.Errorf("%s not unlocked, got %v", want, got)
		}
	}
	if got["exam_a1"] {
		t.Error("exam_a1 unlocked without an A1 pass")
	}
	if got["month_master"] {
		t.Error("month_master unlocked at a 7-day streak")
	}
}

func TestAllAndUnlocked(t *testing.T) {
	now := time.Now()
	engine, _ := seededEngine(t, models.UserProgress{}, 150)

	if _, err := engine.Refresh(now, ExternalCounters{}); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	all, err := engine.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != len(config.AchievementCatalog()) {
		t.Errorf("All() = %d entries, want %d", len(all), len(config.AchievementCatalog()))
	}

	unlocked, err := engine.Unlocked()
	if err != nil {
		t.Fatalf("Unlocked() error = %v", err)
	}
	if !names(unlocked)["wordsmith_100"] {
		t.Error("wordsmith_100 missing from Unlocked()")
	}
	for _, a := range unlocked {
		if !a.Unlocked {
			t.Errorf("%s returned by Unlocked() but not marked unlocked", a.Name)
		}
	}
}
