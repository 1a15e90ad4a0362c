package models

import (
	"time"
)

// ========== CURRICULUM MODELS ==========

// Difficulty tiers for topics
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// User represents a learner account
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"unique;not null" json:"username"`
	Email             string     `gorm:"unique;not null" json:"email"`
	DisplayName       string     `json:"display_name"`
	Level             int        `gorm:"default:1" json:"level"`
	Points            int        `gorm:"default:0" json:"points"`
	Streak            int        `gorm:"default:0" json:"streak"`
	TotalStudyMinutes int        `gorm:"default:0" json:"total_study_minutes"`
	LastActivityAt    *time.Time `json:"last_activity_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Topic is a top-level curriculum unit
type Topic struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `json:"description"`
	Difficulty       string    `gorm:"default:beginner" json:"difficulty"` // beginner, intermediate, advanced
	EstimatedMinutes int       `gorm:"default:0" json:"estimated_minutes"`
	LessonsCount     int       `gorm:"default:0" json:"lessons_count"` // denormalized, maintained by the seeder
	Rating           int       `gorm:"default:0" json:"rating"`        // tenths of a star, 0-50
	DisplayOrder     int       `gorm:"index" json:"display_order"`
	Locked           bool      `gorm:"default:false" json:"locked"`
	CreatedAt        time.Time `json:"created_at"`
}

// Lesson belongs to a topic
type Lesson struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	TopicID              uint      `gorm:"index;not null" json:"topic_id"`
	Title                string    `gorm:"not null" json:"title"`
	Description          string    `json:"description"`
	VideoURL             *string   `json:"video_url,omitempty"`
	VideoDurationSeconds *int      `json:"video_duration_seconds,omitempty"`
	Content              string    `gorm:"type:text" json:"content"`
	OrderInTopic         int       `json:"order_in_topic"`
	CreatedAt            time.Time `json:"created_at"`
}

// Quiz may hang off a lesson, a topic, or both
type Quiz struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	LessonID         *uint      `gorm:"index" json:"lesson_id,omitempty"`
	TopicID          *uint      `gorm:"index" json:"topic_id,omitempty"`
	Title            string     `gorm:"not null" json:"title"`
	Description      string     `json:"description"`
	Questions        []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	PointsReward     int        `gorm:"default:0" json:"points_reward"`
	TimeLimitSeconds *int       `json:"time_limit_seconds,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Question is a single multiple-choice prompt
type Question struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	QuizID        uint     `gorm:"index;not null" json:"quiz_id"`
	Prompt        string   `gorm:"type:text;not null" json:"prompt"`
	Options       []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	CorrectOption int      `json:"correct_option"` // index into Options
	OrderInQuiz   int      `json:"order_in_quiz"`
}

// Option is one answer choice for a question
type Option struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	QuestionID  uint   `gorm:"index;not null" json:"question_id"`
	Text        string `gorm:"not null" json:"text"`
	OrderInList int    `json:"order_in_list"`
}

// ========== PROGRESS & GAMIFICATION MODELS ==========

// UserProgress is one completion event. LessonID absent means the record marks
// topic-level completion.
type UserProgress struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"index;not null" json:"user_id"`
	TopicID          uint       `gorm:"index;not null" json:"topic_id"`
	LessonID         *uint      `gorm:"index" json:"lesson_id,omitempty"`
	Completed        bool       `gorm:"default:false" json:"completed"`
	Score            *int       `json:"score,omitempty"` // 0-100
	TimeSpentSeconds *int       `json:"time_spent_seconds,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Requirement keys an achievement's unlock predicate. Closed set: the evaluator
// switches exhaustively over these and treats anything else as never satisfied.
type Requirement string

const (
	RequirementStreak7Days         Requirement = "streak_7_days"
	RequirementQuiz90Percent5Times Requirement = "quiz_90_percent_5_times"
	RequirementLessons3In1Hour     Requirement = "lessons_3_in_1_hour"
)

// Achievement is a milestone badge
type Achievement struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Slug         string      `gorm:"unique;not null" json:"slug"`
	Title        string      `gorm:"not null" json:"title"`
	Description  string      `json:"description"`
	Icon         string      `json:"icon"` // emoji or icon code
	Requirement  Requirement `gorm:"not null" json:"requirement"`
	PointsReward int         `gorm:"default:0" json:"points_reward"`
	CreatedAt    time.Time   `json:"created_at"`
}

// UserAchievement records a single unlock. The composite unique index keeps a
// racing double-submission from awarding the same badge twice.
type UserAchievement struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	UserID        uint         `gorm:"uniqueIndex:idx_user_achievement;not null" json:"user_id"`
	AchievementID uint         `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievement_id"`
	Achievement   *Achievement `json:"achievement,omitempty"`
	UnlockedAt    time.Time    `json:"unlocked_at"`
	CreatedAt     time.Time    `json:"created_at"`
}

// All lists every persisted model for migration
func All() []interface{} {
	return []interface{}{
		&User{},
		&Topic{},
		&Lesson{},
		&Quiz{},
		&Question{},
		&Option{},
		&UserProgress{},
		&Achievement{},
		&UserAchievement{},
	}
}
