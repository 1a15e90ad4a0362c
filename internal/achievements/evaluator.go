// Package achievements decides which achievements a user's history newly
// qualifies for. Evaluation is side-effect free; persisting unlocks and
// awarding points is the caller's job.
package achievements

import (
	"sort"
	"time"

	"github.com/architect/mathquest/internal/models"
)

const (
	highScoreThreshold = 90
	highScoreCount     = 5
	burstLessonCount   = 3
	burstWindow        = time.Hour
)

// EvaluateUnlocks returns the achievements whose requirement the user now
// satisfies and that are not already unlocked. Unknown requirement keys never
// satisfy.
func EvaluateUnlocks(user *models.User, history []models.UserProgress, all []models.Achievement, alreadyUnlocked []models.UserAchievement) []models.Achievement {
	if user == nil {
		return nil
	}

	unlocked := make(map[uint]bool, len(alreadyUnlocked))
	for _, ua := range alreadyUnlocked {
		unlocked[ua.AchievementID] = true
	}

	var eligible []models.Achievement
	for _, achievement := range all {
		if unlocked[achievement.ID] {
			continue
		}
		if satisfies(achievement.Requirement, user, history) {
			eligible = append(eligible, achievement)
		}
	}
	return eligible
}

func satisfies(requirement models.Requirement, user *models.User, history []models.UserProgress) bool {
	switch requirement {
	case models.RequirementStreak7Days:
		return user.Streak >= 7
	case models.RequirementQuiz90Percent5Times:
		return countHighScores(history) >= highScoreCount
	case models.RequirementLessons3In1Hour:
		return hasCompletionBurst(history, burstLessonCount, burstWindow)
	default:
		return false
	}
}

func countHighScores(history []models.UserProgress) int {
	count := 0
	for _, record := range history {
		if record.Score != nil && *record.Score >= highScoreThreshold {
			count++
		}
	}
	return count
}

// hasCompletionBurst reports whether at least n completions fall inside any
// rolling window. Completions without a timestamp cannot participate.
func hasCompletionBurst(history []models.UserProgress, n int, window time.Duration) bool {
	var times []time.Time
	for _, record := range history {
		if record.Completed && record.CompletedAt != nil {
			times = append(times, *record.CompletedAt)
		}
	}
	if len(times) < n {
		return false
	}

	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	// Slide a window over the sorted timestamps; bounds are inclusive, so
	// completions exactly one hour apart still count together.
	left := 0
	for right := range times {
		for times[right].Sub(times[left]) > window {
			left++
		}
		if right-left+1 >= n {
			return true
		}
	}
	return false
}
