package store

import (
	"context"

	"github.com/architect/mathquest/internal/models"
)

// Store is the data-access contract the rest of the application is written
// against. Single-entity lookups return (nil, nil) when the id does not
// resolve; list operations honor the ordering documented on each method.
type Store interface {
	// Users
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser merges the non-nil fields into the stored record and returns
	// the result, or nil if the id is unknown.
	UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error)

	// Topics, ordered by display order ascending (id breaks ties)
	GetTopic(ctx context.Context, id uint) (*models.Topic, error)
	ListTopics(ctx context.Context) ([]models.Topic, error)
	CreateTopic(ctx context.Context, topic *models.Topic) error

	// Lessons for a topic, ordered by order-within-topic
	GetLesson(ctx context.Context, id uint) (*models.Lesson, error)
	ListLessons(ctx context.Context, topicID uint) ([]models.Lesson, error)
	CreateLesson(ctx context.Context, lesson *models.Lesson) error

	// Quizzes with questions and options preloaded in declared order
	GetQuiz(ctx context.Context, id uint) (*models.Quiz, error)
	ListQuizzes(ctx context.Context, filter models.QuizFilter) ([]models.Quiz, error)
	CreateQuiz(ctx context.Context, quiz *models.Quiz) error

	// Progress records
	ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error)
	ListTopicProgress(ctx context.Context, userID, topicID uint) ([]models.UserProgress, error)
	CreateProgress(ctx context.Context, progress *models.UserProgress) error
	UpdateProgress(ctx context.Context, id uint, update models.ProgressUpdate) (*models.UserProgress, error)

	// Achievements
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	CreateAchievement(ctx context.Context, achievement *models.Achievement) error
	// ListUserAchievements returns a user's unlocks joined with achievement detail
	ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error)
	CreateUserAchievement(ctx context.Context, userID, achievementID uint) (*models.UserAchievement, error)

	// WithTx runs fn against a store bound to a transaction; if fn returns an
	// error nothing it wrote is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
