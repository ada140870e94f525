package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"lernbuddy/internal/achievements"
	"lernbuddy/internal/engagement"
	"lernbuddy/internal/models"
	"lernbuddy/internal/progression"
	"lernbuddy/internal/srs"
)

var (
	ErrInvalidActivity   = errors.New("invalid activity type")
	ErrInvalidTier       = errors.New("invalid CEFR tier")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrSessionNotStarted = errors.New("session has no start time")
)

// SessionStore is the session persistence the orchestrator needs
type SessionStore interface {
	Create(activityType, tier string) (*models.LearningSession, error)
	ByID(id int64) (*models.LearningSession, error)
	Complete(session *models.LearningSession) error
	Totals(days int) (*models.SessionTotals, error)
}

// ActivityStore records per-day activity aggregates
type ActivityStore interface {
	Record(date string, delta models.DailyActivity) error
	Recent(limit int) ([]models.DailyActivity, error)
}

// MistakeStore logs exercise mistakes for later pattern analysis
type MistakeStore interface {
	Log(m *models.Mistake) error
	Patterns(limit int) ([]models.MistakePattern, error)
}

// StreakTracker is the engagement surface the orchestrator drives
type StreakTracker interface {
	RecordSession(today time.Time, durationSeconds int) (*engagement.StreakInfo, error)
	AddStudyTime(seconds int) error
}

// Scheduler is the review-queue surface used when planning a session
type Scheduler interface {
	Stats(now time.Time) (*srs.StudyStats, error)
}

// Awarder is the progression surface used when closing a session
type Awarder interface {
	Award(amount int, reason string) (*progression.AwardResult, error)
	CurrentLevelInfo() (*progression.LevelInfo, error)
	LevelReward(level int) string
}

// AchievementRefresher re-evaluates achievements after a session
type AchievementRefresher interface {
	Refresh(now time.Time, ext achievements.ExternalCounters) ([]models.Achievement, error)
}

// Orchestrator coordinates a learning session's lifecycle against the
// scheduler, progression, engagement and achievement engines
type Orchestrator struct {
	sessions     SessionStore
	activity     ActivityStore
	mistakes     MistakeStore
	scheduler    Scheduler
	awarder      Awarder
	streaks      StreakTracker
	achievements AchievementRefresher
	logger       *log.Logger
}

// NewOrchestrator wires the session workflow together. All collaborators
// are required except logger, which defaults to the standard logger.
func NewOrchestrator(
	sessions SessionStore,
	activity ActivityStore,
	mistakes MistakeStore,
	scheduler Scheduler,
	awarder Awarder,
	streaks StreakTracker,
	achievementEngine AchievementRefresher,
	logger *log.Logger,
) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		sessions:     sessions,
		activity:     activity,
		mistakes:     mistakes,
		scheduler:    scheduler,
		awarder:      awarder,
		streaks:      streaks,
		achievements: achievementEngine,
		logger:       logger,
	}
}

// SessionPlan is an open session plus the review workload waiting for it
type SessionPlan struct {
	Session            *models.LearningSession
	DueReviews         int
	NewAvailable       int
	RecommendedReviews int
	RecommendedNew     int
}

// Start opens a session for one activity at one tier and reports the
// current review workload
func (o *Orchestrator) Start(activityType, tier string, now time.Time) (*SessionPlan, error) {
	if !models.ValidActivityType(activityType) {
		return nil, fmt.Errorf("activity %q: %w", activityType, ErrInvalidActivity)
	}
	if !models.ValidTier(tier) {
		return nil, fmt.Errorf("tier %q: %w", tier, ErrInvalidTier)
	}

	sess, err := o.sessions.Create(activityType, tier)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	stats, err := o.scheduler.Stats(now)
	if err != nil {
		return nil, fmt.Errorf("load study stats: %w", err)
	}

	o.logger.Printf("session %s started: %s at %s, %d reviews due", sess.Token, activityType, tier, stats.DueReviews)

	return &SessionPlan{
		Session:            sess,
		DueReviews:         stats.DueReviews,
		NewAvailable:       stats.NewAvailable,
		RecommendedReviews: stats.RecommendedReviews,
		RecommendedNew:     stats.RecommendedNew,
	}, nil
}

// SessionStats is what the caller reports when closing a session.
// XPApplied marks sessions whose XP was already awarded per answer;
// the close step then skips the lump award to avoid double counting.
type SessionStats struct {
	XPEarned           int
	WordsLearned       int
	ExercisesCompleted int
	MistakesMade       int
	Notes              string
	XPApplied          bool
	Counters           achievements.ExternalCounters
}

// SessionSummary is the result of closing a session
type SessionSummary struct {
	Session         *models.LearningSession
	DurationSeconds int
	XPEarned        int
	LeveledUp       bool
	Level           int
	LevelReward     string
	Streak          *engagement.StreakInfo
	NewAchievements []models.Achievement
}

// End closes a session: it finalizes the record, awards the session XP,
// extends the streak and study time, rolls the day's activity totals,
// and refreshes achievements. Achievement XP rewards route back through
// the progression engine.
func (o *Orchestrator) End(sessionID int64, stats SessionStats, now time.Time) (*SessionSummary, error) {
	sess, err := o.sessions.ByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Completed() {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrSessionCompleted)
	}
	if sess.StartedAt.IsZero() {
		return nil, fmt.Errorf("session %d: %w", sessionID, ErrSessionNotStarted)
	}

	duration := int(now.Sub(sess.StartedAt).Seconds())
	if duration < 0 {
		duration = 0
	}

	ended := now
	sess.EndedAt = &ended
	sess.DurationSeconds = duration
	sess.XPEarned = stats.XPEarned
	sess.WordsLearned = stats.WordsLearned
	sess.ExercisesCompleted = stats.ExercisesCompleted
	sess.MistakesMade = stats.MistakesMade
	sess.Notes = stats.Notes

	if err := o.sessions.Complete(sess); err != nil {
		return nil, fmt.Errorf("complete session %d: %w", sessionID, err)
	}

	summary := &SessionSummary{
		Session:         sess,
		DurationSeconds: duration,
		XPEarned:        stats.XPEarned,
	}

	if stats.XPEarned > 0 && !stats.XPApplied {
		award, err := o.awarder.Award(stats.XPEarned, sess.ActivityType)
		if err != nil {
			return nil, err
		}
		summary.LeveledUp = award.LeveledUp
		summary.Level = award.NewLevel
		if award.LeveledUp {
			summary.LevelReward = o.awarder.LevelReward(award.NewLevel)
		}
	} else {
		info, err := o.awarder.CurrentLevelInfo()
		if err != nil {
			return nil, err
		}
		summary.Level = info.Level
	}

	if err := o.streaks.AddStudyTime(duration); err != nil {
		return nil, err
	}
	streak, err := o.streaks.RecordSession(now, duration)
	if err != nil {
		return nil, err
	}
	summary.Streak = streak

	err = o.activity.Record(models.DateKey(now), models.DailyActivity{
		TotalSeconds:       duration,
		XPEarned:           stats.XPEarned,
		WordsLearned:       stats.WordsLearned,
		ExercisesCompleted: stats.ExercisesCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("record daily activity: %w", err)
	}

	unlocked, err := o.achievements.Refresh(now, stats.Counters)
	if err != nil {
		return nil, err
	}
	summary.NewAchievements = unlocked
	for _, a := range unlocked {
		if a.XPReward <= 0 {
			continue
		}
		award, err := o.awarder.Award(a.XPReward, "achievement:"+a.Name)
		if err != nil {
			return nil, err
		}
		if award.LeveledUp {
			summary.LeveledUp = true
			summary.Level = award.NewLevel
			summary.LevelReward = o.awarder.LevelReward(award.NewLevel)
		}
	}

	o.logger.Printf("session %s ended: %ds, %d xp, %d achievements", sess.Token, duration, stats.XPEarned, len(unlocked))
	return summary, nil
}

// LogMistake stores one exercise mistake against its session
func (o *Orchestrator) LogMistake(m *models.Mistake) error {
	if m.SessionID == 0 {
		return fmt.Errorf("mistake without session: %w", ErrSessionNotStarted)
	}
	return o.mistakes.Log(m)
}

// MistakePatterns returns the most frequent mistake categories
func (o *Orchestrator) MistakePatterns(limit int) ([]models.MistakePattern, error) {
	return o.mistakes.Patterns(limit)
}

// RecentActivity returns the last days of aggregated daily activity
func (o *Orchestrator) RecentActivity(limit int) ([]models.DailyActivity, error) {
	return o.activity.Recent(limit)
}

// Totals aggregates completed sessions over the last days
func (o *Orchestrator) Totals(days int) (*models.SessionTotals, error) {
	return o.sessions.Totals(days)
}
