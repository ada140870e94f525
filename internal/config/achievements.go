package config

import "lernbuddy/internal/models"

// AchievementCatalog returns the fixed set of achievements. The catalog is
// seeded insert-if-absent, so adding entries here is safe across upgrades.
func AchievementCatalog() []models.Achievement {
	return []models.Achievement{
		// Milestones
		{Name: "first_step", Title: "First Step", Description: "Complete your first study session",
			Category: models.CategoryMilestone, Requirement: 1, XPReward: 50, Icon: "🎯"},

		// Streaks
		{Name: "week_warrior", Title: "Week Warrior", Description: "Maintain a 7-day streak",
			Category: models.CategoryStreak, Requirement: 7, XPReward: 100, Icon: "🔥"},
		{Name: "month_master", Title: "Month Master", Description: "Maintain a 30-day streak",
			Category: models.CategoryStreak, Requirement: 30, XPReward: 300, Icon: "💪"},
		{Name: "century_scholar", Title: "Century Scholar", Description: "Maintain a 100-day streak",
			Category: models.CategoryStreak, Requirement: 100, XPReward: 1000, Icon: "👑"},

		// Vocabulary
		{Name: "wordsmith_100", Title: "Wordsmith", Description: "Learn 100 words",
			Category: models.CategoryVocabulary, Requirement: 100, XPReward: 150, Icon: "📚"},
		{Name: "wordsmith_500", Title: "Word Master", Description: "Learn 500 words",
			Category: models.CategoryVocabulary, Requirement: 500, XPReward: 400, Icon: "📖"},
		{Name: "wordsmith_2000", Title: "Word Virtuoso", Description: "Learn 2000 words",
			Category: models.CategoryVocabulary, Requirement: 2000, XPReward: 1500, Icon: "🎓"},

		// Speaking (requirement in minutes of practice)
		{Name: "chatterbox_10", Title: "Chatterbox", Description: "Practice speaking for 10 hours",
			Category: models.CategorySpeaking, Requirement: 600, XPReward: 200, Icon: "🗣️"},
		{Name: "chatterbox_50", Title: "Conversation Expert", Description: "Practice speaking for 50 hours",
			Category: models.CategorySpeaking, Requirement: 3000, XPReward: 600, Icon: "💬"},
		{Name: "chatterbox_200", Title: "Native Talker", Description: "Practice speaking for 200 hours",
			Category: models.CategorySpeaking, Requirement: 12000, XPReward: 2000, Icon: "🎤"},

		// Writing
		{Name: "author_50", Title: "Author", Description: "Complete 50 writing exercises",
			Category: models.CategoryWriting, Requirement: 50, XPReward: 200, Icon: "✍️"},
		{Name: "author_200", Title: "Prolific Writer", Description: "Complete 200 writing exercises",
			Category: models.CategoryWriting, Requirement: 200, XPReward: 600, Icon: "📝"},
		{Name: "author_500", Title: "Literary Master", Description: "Complete 500 writing exercises",
			Category: models.CategoryWriting, Requirement: 500, XPReward: 1500, Icon: "🖊️"},

		// Mock exams
		{Name: "exam_a1", Title: "A1 Certified", Description: "Pass an A1 mock exam",
			Category: models.CategoryExam, Requirement: 1, XPReward: 300, Icon: "🏅"},
		{Name: "exam_a2", Title: "A2 Certified", Description: "Pass an A2 mock exam",
			Category: models.CategoryExam, Requirement: 1, XPReward: 500, Icon: "🥇"},
		{Name: "exam_b1", Title: "B1 Certified", Description: "Pass a B1 mock exam",
			Category: models.CategoryExam, Requirement: 1, XPReward: 800, Icon: "🏆"},
		{Name: "exam_b2", Title: "B2 Certified", Description: "Pass a B2 mock exam",
			Category: models.CategoryExam, Requirement: 1, XPReward: 1200, Icon: "👨‍🎓"},

		// Perfect scores
		{Name: "perfectionist_10", Title: "Perfectionist", Description: "Get 10 perfect scores",
			Category: models.CategoryMilestone, Requirement: 10, XPReward: 150, Icon: "⭐"},
		{Name: "perfectionist_50", Title: "Flawless Master", Description: "Get 50 perfect scores",
			Category: models.CategoryMilestone, Requirement: 50, XPReward: 500, Icon: "✨"},
		{Name: "perfectionist_100", Title: "Perfect Legend", Description: "Get 100 perfect scores",
			Category: models.CategoryMilestone, Requirement: 100, XPReward: 1000, Icon: "💫"},

		// Total study time (requirement in minutes)
		{Name: "dedicated_10", Title: "Dedicated Learner", Description: "Study for 10 hours total",
			Category: models.CategoryMilestone, Requirement: 600, XPReward: 100, Icon: "📅"},
		{Name: "dedicated_50", Title: "Serious Student", Description: "Study for 50 hours total",
			Category: models.CategoryMilestone, Requirement: 3000, XPReward: 400, Icon: "⏰"},
		{Name: "dedicated_200", Title: "Learning Machine", Description: "Study for 200 hours total",
			Category: models.CategoryMilestone, Requirement: 12000, XPReward: 1500, Icon: "🤖"},
		{Name: "dedicated_500", Title: "Ultimate Scholar", Description: "Study for 500 hours total",
			Category: models.CategoryMilestone, Requirement: 30000, XPReward: 3000, Icon: "🌟"},
	}
}
