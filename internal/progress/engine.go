// Package progress computes the derived dashboard and progress-page metrics
// from raw entity collections. Everything here is a pure function over its
// inputs: no store access, no mutation, no hidden state.
package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/models"
)

// XPPerLevel is the fixed amount of points separating consecutive levels
const XPPerLevel = 1000

// Topic progress statuses
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusNotStarted = "not_started"
)

// LevelProgress is the display-only XP projection for the level bar. It never
// feeds back into the stored level; leveling up is the award flow's job.
type LevelProgress struct {
	Level      int `json:"level"`
	CurrentXP  int `json:"current_xp"`
	RequiredXP int `json:"required_xp"`
	Percentage int `json:"percentage"`
}

// Dashboard is the view model behind the home screen stats
type Dashboard struct {
	CompletedTopics     int                      `json:"completed_topics"`
	TotalTopics         int                      `json:"total_topics"`
	TopicsDisplay       string                   `json:"topics_display"` // "X/Y"
	AverageScore        int                      `json:"average_score"`
	AverageScoreDisplay string                   `json:"average_score_display"` // "N%"
	StudyTimeDisplay    string                   `json:"study_time_display"`    // "Xh Ym"
	LevelProgress       LevelProgress            `json:"level_progress"`
	RecentAchievements  []models.UserAchievement `json:"recent_achievements"`
}

// TopicProgress is one row of the progress page
type TopicProgress struct {
	TopicID          uint   `json:"topic_id"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	CompletedLessons int    `json:"completed_lessons"`
	LessonsCount     int    `json:"lessons_count"`
	Percentage       int    `json:"percentage"` // unclamped: may exceed 100 when the denormalized lessons count lags
	AverageScore     int    `json:"average_score"`
}

// Activity is one recent-activity entry, annotated with its topic title
type Activity struct {
	ProgressID  uint      `json:"progress_id"`
	TopicID     uint      `json:"topic_id"`
	TopicTitle  string    `json:"topic_title"`
	LessonID    *uint     `json:"lesson_id,omitempty"`
	Score       *int      `json:"score,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// ComputeDashboard derives the dashboard stats for a user. A nil user is a
// precondition failure: the engine never synthesizes a phantom user.
func ComputeDashboard(user *models.User, topics []models.Topic, records []models.UserProgress, unlocks []models.UserAchievement) (*Dashboard, error) {
	if user == nil {
		return nil, errors.NotFound("user")
	}

	completed := 0
	for _, topic := range topics {
		if topicCompleted(topic.ID, records) {
			completed++
		}
	}

	avg := averageScore(records)
	minutes := user.TotalStudyMinutes

	return &Dashboard{
		CompletedTopics:     completed,
		TotalTopics:         len(topics),
		TopicsDisplay:       fmt.Sprintf("%d/%d", completed, len(topics)),
		AverageScore:        avg,
		AverageScoreDisplay: fmt.Sprintf("%d%%", avg),
		StudyTimeDisplay:    FormatStudyTime(minutes),
		LevelProgress:       ComputeLevelProgress(user.Level, user.Points),
		RecentAchievements:  recentUnlocks(unlocks, 3),
	}, nil
}

// ComputeTopicProgress derives the per-topic rows of the progress page
func ComputeTopicProgress(topics []models.Topic, records []models.UserProgress) []TopicProgress {
	rows := make([]TopicProgress, 0, len(topics))
	for _, topic := range topics {
		var scoped []models.UserProgress
		completedLessons := 0
		for _, record := range records {
			if record.TopicID != topic.ID {
				continue
			}
			scoped = append(scoped, record)
			if record.Completed {
				completedLessons++
			}
		}

		percentage := 0
		if topic.LessonsCount > 0 {
			percentage = roundRatio(completedLessons, topic.LessonsCount)
		}

		status := StatusNotStarted
		if topicCompleted(topic.ID, records) {
			status = StatusCompleted
		} else if len(scoped) > 0 {
			status = StatusInProgress
		}

		rows = append(rows, TopicProgress{
			TopicID:          topic.ID,
			Title:            topic.Title,
			Status:           status,
			CompletedLessons: completedLessons,
			LessonsCount:     topic.LessonsCount,
			Percentage:       percentage,
			AverageScore:     averageScore(scoped),
		})
	}
	return rows
}

// ComputeRecentActivity returns up to limit most-recently-completed records,
// newest first. Records without a completion timestamp are excluded; records
// pointing at a topic that no longer resolves are skipped rather than failing
// the whole computation.
func ComputeRecentActivity(topics []models.Topic, records []models.UserProgress, limit int) []Activity {
	titles := make(map[uint]string, len(topics))
	for _, topic := range topics {
		titles[topic.ID] = topic.Title
	}

	activities := make([]Activity, 0, len(records))
	for _, record := range records {
		if record.CompletedAt == nil {
			continue
		}
		title, ok := titles[record.TopicID]
		if !ok {
			continue
		}
		activities = append(activities, Activity{
			ProgressID:  record.ID,
			TopicID:     record.TopicID,
			TopicTitle:  title,
			LessonID:    record.LessonID,
			Score:       record.Score,
			CompletedAt: *record.CompletedAt,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].CompletedAt.After(activities[j].CompletedAt)
	})

	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// ComputeLevelProgress projects stored level and points onto the XP bar. The
// percentage is clamped to [0, 100] even when points run past the next-level
// threshold; the stored level is left alone.
func ComputeLevelProgress(level, points int) LevelProgress {
	floor := (level - 1) * XPPerLevel
	current := points - floor
	if current < 0 {
		current = 0
	}

	percentage := roundRatio(current, XPPerLevel)
	if percentage > 100 {
		percentage = 100
	}

	return LevelProgress{
		Level:      level,
		CurrentXP:  current,
		RequiredXP: XPPerLevel,
		Percentage: percentage,
	}
}

// FormatStudyTime renders total minutes as "Xh Ym"
func FormatStudyTime(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// topicCompleted reports whether a topic-level completion record exists: a
// completed record for the topic with no lesson reference.
func topicCompleted(topicID uint, records []models.UserProgress) bool {
	for _, record := range records {
		if record.TopicID == topicID && record.Completed && record.LessonID == nil {
			return true
		}
	}
	return false
}

// averageScore is the mean of the scores that are present, rounded to the
// nearest integer. No scored records means 0, never a division fault.
func averageScore(records []models.UserProgress) int {
	sum, count := 0, 0
	for _, record := range records {
		if record.Score != nil {
			sum += *record.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// recentUnlocks returns the n most recent unlocks, newest first, stable ties
func recentUnlocks(unlocks []models.UserAchievement, n int) []models.UserAchievement {
	sorted := make([]models.UserAchievement, len(unlocks))
	copy(sorted, unlocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnlockedAt.After(sorted[j].UnlockedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func roundRatio(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}
