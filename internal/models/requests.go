package models

import "time"

// SubmitProgressRequest is the quiz/lesson submission payload
type SubmitProgressRequest struct {
	UserID           uint  `json:"user_id" binding:"required" validate:"required"`
	TopicID          uint  `json:"topic_id" binding:"required" validate:"required"`
	LessonID         *uint `json:"lesson_id"`
	Completed        *bool `json:"completed" binding:"required" validate:"required"`
	Score            *int  `json:"score" binding:"omitempty,min=0,max=100" validate:"omitempty,min=0,max=100"`
	TimeSpentSeconds *int  `json:"time_spent_seconds" binding:"omitempty,min=0" validate:"omitempty,min=0"`
}

// UpdateUserRequest carries a partial user update; nil fields keep their prior value
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name"`
	Level       *int    `json:"level" binding:"omitempty,min=1"`
	Points      *int    `json:"points" binding:"omitempty,min=0"`
	Streak      *int    `json:"streak" binding:"omitempty,min=0"`
}

// ProgressUpdate carries a partial progress-record update
type ProgressUpdate struct {
	Completed        *bool
	Score            *int
	TimeSpentSeconds *int
	CompletedAt      *time.Time
}

// UserUpdate is the store-level partial user update
type UserUpdate struct {
	DisplayName       *string
	Level             *int
	Points            *int
	Streak            *int
	TotalStudyMinutes *int
	LastActivityAt    *time.Time
}

// QuizFilter narrows quiz listings; nil fields apply no constraint
type QuizFilter struct {
	TopicID  *uint
	LessonID *uint
}

// SubmitProgressResponse returns the stored record plus any unlocks it triggered
type SubmitProgressResponse struct {
	Progress             *UserProgress `json:"progress"`
	UnlockedAchievements []Achievement `json:"unlocked_achievements"`
	User                 *User         `json:"user"`
}
