package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"lernbuddy/internal/achievements"
	"lernbuddy/internal/config"
	"lernbuddy/internal/database"
	"lernbuddy/internal/engagement"
	"lernbuddy/internal/models"
	"lernbuddy/internal/progression"
	"lernbuddy/internal/repository"
	"lernbuddy/internal/session"
	"lernbuddy/internal/srs"
)

type app struct {
	vocab        *repository.VocabRepository
	scheduler    *srs.Scheduler
	engine       *progression.Engine
	tracker      *engagement.Tracker
	milestones   *achievements.Engine
	orchestrator *session.Orchestrator
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	vocabRepo := repository.NewVocabRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	mistakeRepo := repository.NewMistakeRepository(db)

	a := &app{
		vocab:      vocabRepo,
		scheduler:  srs.NewScheduler(vocabRepo, config.DefaultSRS()),
		engine:     progression.NewEngine(progressRepo, config.DefaultLevels(), config.CEFRBands(), config.DefaultXP()),
		tracker:    engagement.NewTracker(progressRepo, config.DefaultSession()),
		milestones: achievements.NewEngine(achievementRepo, progressRepo, vocabRepo),
	}
	a.orchestrator = session.NewOrchestrator(
		sessionRepo, activityRepo, mistakeRepo,
		a.scheduler, a.engine, a.tracker, a.milestones, nil,
	)

	if err := a.milestones.Seed(config.AchievementCatalog()); err != nil {
		log.Fatalf("Failed to seed achievements: %v", err)
	}

	command := "status"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "status":
		a.status()
	case "study":
		a.study()
	case "add":
		a.addWord(os.Args[2:])
	case "forecast":
		a.forecast()
	case "difficult":
		a.difficult()
	case "achievements":
		a.listAchievements()
	default:
		printUsage()
		os.Exit(1)
	}
}

func (a *app) status() {
	now := time.Now()

	info, err := a.engine.CurrentLevelInfo()
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}
	streak, err := a.tracker.Current(now)
	if err != nil {
		log.Fatalf("Failed to load streak: %v", err)
	}
	stats, err := a.scheduler.Stats(now)
	if err != nil {
		log.Fatalf("Failed to load study stats: %v", err)
	}

	fmt.Println("LernBuddy — German Learning Progress")
	fmt.Println()
	fmt.Printf("Level %d (%s) — %d XP, %.0f%% through the level\n",
		info.Level, info.CEFRLevel, info.TotalXP, info.PercentToNext)
	fmt.Printf("Streak: %d days (longest %d)\n", streak.Current, streak.Longest)
	fmt.Printf("Vocabulary: %d words, %d mastered, %.1f%% accuracy\n",
		stats.TotalWords, stats.Mastered, stats.AverageAccuracy)
	fmt.Printf("Today: %d reviews recommended, %d new words available\n",
		stats.RecommendedReviews, stats.NewAvailable)
}

// study runs one interactive vocabulary review session
func (a *app) study() {
	now := time.Now()

	info, err := a.engine.CurrentLevelInfo()
	if err != nil {
		log.Fatalf("Failed to load progress: %v", err)
	}

	plan, err := a.orchestrator.Start(models.ActivityVocabulary, info.CEFRLevel, now)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	items, err := a.scheduler.DueItems(now, plan.RecommendedReviews)
	if err != nil {
		log.Fatalf("Failed to load due items: %v", err)
	}
	if len(items) == 0 {
		fresh, err := a.scheduler.NewItems(info.CEFRLevel, 0)
		if err != nil {
			log.Fatalf("Failed to load new items: %v", err)
		}
		items = fresh
	}
	if len(items) == 0 {
		fmt.Println("Nothing to review. Add words with: trainer add -word ... -translation ...")
		return
	}
	srs.Shuffle(items)

	fmt.Printf("Reviewing %d words. Grade each recall: a(gain) h(ard) g(ood) e(asy) q(uit)\n\n", len(items))

	reader := bufio.NewReader(os.Stdin)
	var correct, incorrect, newWords int
	for _, item := range items {
		if item.TimesReviewed == 0 {
			newWords++
		}
		fmt.Printf("  %s", item.Word)
		reader.ReadString('\n')
		fmt.Printf("  -> %s\n", item.Translation)
		fmt.Print("  grade [a/h/g/e/q]: ")

		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		grade, ok := parseGrade(strings.TrimSpace(line))
		if !ok {
			break
		}

		result, err := a.scheduler.Review(item.ID, grade, time.Now())
		if err != nil {
			log.Fatalf("Failed to record review: %v", err)
		}
		if grade == srs.GradeAgain {
			incorrect++
		} else {
			correct++
		}
		fmt.Printf("  next review in %d days\n\n", result.IntervalDays)
	}

	breakdown := a.engine.SessionXP(progression.ActivityStats{
		ActivityType:     models.ActivityVocabulary,
		CorrectAnswers:   correct,
		IncorrectAnswers: incorrect,
		NewWords:         newWords,
	})

	summary, err := a.orchestrator.End(plan.Session.ID, session.SessionStats{
		XPEarned:           breakdown.Total,
		WordsLearned:       newWords,
		ExercisesCompleted: correct + incorrect,
		MistakesMade:       incorrect,
	}, time.Now())
	if err != nil {
		log.Fatalf("Failed to close session: %v", err)
	}

	fmt.Printf("Session complete: %d correct, %d missed, +%d XP\n", correct, incorrect, summary.XPEarned)
	if summary.LeveledUp {
		fmt.Printf("Level up! Now level %d. %s\n", summary.Level, summary.LevelReward)
	}
	for _, unlocked := range summary.NewAchievements {
		fmt.Printf("Achievement unlocked: %s %s (+%d XP)\n", unlocked.Icon, unlocked.Title, unlocked.XPReward)
	}
}

func parseGrade(input string) (srs.Grade, bool) {
	switch input {
	case "a":
		return srs.GradeAgain, true
	case "h":
		return srs.GradeHard, true
	case "g":
		return srs.GradeGood, true
	case "e":
		return srs.GradeEasy, true
	}
	return "", false
}

func (a *app) addWord(args []string) {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	word := addCmd.String("word", "", "German word (required)")
	translation := addCmd.String("translation", "", "English translation (required)")
	tier := addCmd.String("level", models.TierA1, "CEFR level: A1, A2, B1 or B2")
	example := addCmd.String("example", "", "Example sentence")
	addCmd.Parse(args)

	if *word == "" || *translation == "" {
		fmt.Println("Error: -word and -translation are required")
		addCmd.PrintDefaults()
		os.Exit(1)
	}
	if !models.ValidTier(*tier) {
		log.Fatalf("Invalid CEFR level %q", *tier)
	}

	item := &models.VocabularyItem{
		Word:            *word,
		Translation:     *translation,
		CEFRLevel:       *tier,
		ExampleSentence: *example,
		Source:          "manual",
	}
	if err := a.vocab.Create(item); err != nil {
		log.Fatalf("Failed to add word: %v", err)
	}
	fmt.Printf("Added %q (%s)\n", item.Word, item.CEFRLevel)
}

func (a *app) forecast() {
	now := time.Now()
	forecast, err := a.scheduler.Forecast(now, 7)
	if err != nil {
		log.Fatalf("Failed to build forecast: %v", err)
	}

	days := make([]string, 0, len(forecast))
	for day := range forecast {
		days = append(days, day)
	}
	sort.Strings(days)

	fmt.Println("Review forecast (next 7 days):")
	for _, day := range days {
		fmt.Printf("  %s  %d reviews\n", day, forecast[day])
	}
}

// difficult shows the lowest-accuracy words and recurring mistake patterns
func (a *app) difficult() {
	words, err := a.scheduler.DifficultWords(10)
	if err != nil {
		log.Fatalf("Failed to load difficult words: %v", err)
	}

	if len(words) == 0 {
		fmt.Println("No difficult words yet. Review more vocabulary first.")
	} else {
		fmt.Println("Hardest words:")
		for _, item := range words {
			fmt.Printf("  %-20s %-20s %.1f%% accuracy\n", item.Word, item.Translation, item.Accuracy())
		}
	}

	patterns, err := a.orchestrator.MistakePatterns(5)
	if err != nil {
		log.Fatalf("Failed to load mistake patterns: %v", err)
	}
	if len(patterns) > 0 {
		fmt.Println()
		fmt.Println("Recurring mistakes:")
		for _, p := range patterns {
			fmt.Printf("  %s / %s: %d times\n", p.Category, p.Subcategory, p.Count)
		}
	}
}

func (a *app) listAchievements() {
	all, err := a.milestones.All()
	if err != nil {
		log.Fatalf("Failed to load achievements: %v", err)
	}

	for _, ach := range all {
		state := fmt.Sprintf("%d/%d", ach.Progress, ach.Requirement)
		if ach.Unlocked {
			state = "unlocked"
		}
		fmt.Printf("  %s %-20s %-10s %s\n", ach.Icon, ach.Title, state, ach.Description)
	}
}

func printUsage() {
	fmt.Println("LernBuddy — personal German learning trainer")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  trainer [status]       Show level, streak and review workload")
	fmt.Println("  trainer study          Run an interactive vocabulary review session")
	fmt.Println("  trainer add [options]  Add a word to the vocabulary")
	fmt.Println("  trainer forecast       Show reviews coming due this week")
	fmt.Println("  trainer difficult      Show hardest words and mistake patterns")
	fmt.Println("  trainer achievements   List achievements and progress")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./lernbuddy.db)")
	fmt.Println("  DB_URL           PostgreSQL or MySQL connection URL")
}
