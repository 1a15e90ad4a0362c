package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/models"
)

// GormStore implements Store on a gorm handle. The handle is injected; the
// package keeps no globals.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// ========== USERS ==========

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	result := s.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch user", result.Error.Error())
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if result := s.db.WithContext(ctx).Create(user); result.Error != nil {
		return errors.Internal("failed to create user", result.Error.Error())
	}
	return nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, update models.UserUpdate) (*models.User, error) {
	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	fields := map[string]interface{}{}
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
	}
	if update.Level != nil {
		fields["level"] = *update.Level
	}
	if update.Points != nil {
		fields["points"] = *update.Points
	}
	if update.Streak != nil {
		fields["streak"] = *update.Streak
	}
	if update.TotalStudyMinutes != nil {
		fields["total_study_minutes"] = *update.TotalStudyMinutes
	}
	if update.LastActivityAt != nil {
		fields["last_activity_at"] = *update.LastActivityAt
	}

	if len(fields) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			return nil, errors.Internal("failed to update user", result.Error.Error())
		}
	}

	return s.GetUser(ctx, id)
}

// ========== TOPICS ==========

func (s *GormStore) GetTopic(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	result := s.db.WithContext(ctx).First(&topic, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch topic", result.Error.Error())
	}
	return &topic, nil
}

func (s *GormStore) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	result := s.db.WithContext(ctx).
		Order("display_order ASC, id ASC").
		Find(&topics)
	if result.Error != nil {
		return nil, errors.Internal("failed to list topics", result.Error.Error())
	}
	return topics, nil
}

func (s *GormStore) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if result := s.db.WithContext(ctx).Create(topic); result.Error != nil {
		return errors.Internal("failed to create topic", result.Error.Error())
	}
	return nil
}

// ========== LESSONS ==========

func (s *GormStore) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	result := s.db.WithContext(ctx).First(&lesson, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch lesson", result.Error.Error())
	}
	return &lesson, nil
}

func (s *GormStore) ListLessons(ctx context.Context, topicID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	result := s.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("order_in_topic ASC").
		Find(&lessons)
	if result.Error != nil {
		return nil, errors.Internal("failed to list lessons", result.Error.Error())
	}
	return lessons, nil
}

func (s *GormStore) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if result := s.db.WithContext(ctx).Create(lesson); result.Error != nil {
		return errors.Internal("failed to create lesson", result.Error.Error())
	}
	return nil
}

// ========== QUIZZES ==========

func (s *GormStore) quizQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_quiz ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_in_list ASC")
		})
}

func (s *GormStore) GetQuiz(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	result := s.quizQuery(ctx).First(&quiz, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch quiz", result.Error.Error())
	}
	return &quiz, nil
}

func (s *GormStore) ListQuizzes(ctx context.Context, filter models.QuizFilter) ([]models.Quiz, error) {
	query := s.quizQuery(ctx)
	if filter.TopicID != nil {
		query = query.Where("topic_id = ?", *filter.TopicID)
	}
	if filter.LessonID != nil {
		query = query.Where("lesson_id = ?", *filter.LessonID)
	}

	var quizzes []models.Quiz
	result := query.Order("id ASC").Find(&quizzes)
	if result.Error != nil {
		return nil, errors.Internal("failed to list quizzes", result.Error.Error())
	}
	return quizzes, nil
}

func (s *GormStore) CreateQuiz(ctx context.Context, quiz *models.Quiz) error {
	if result := s.db.WithContext(ctx).Create(quiz); result.Error != nil {
		return errors.Internal("failed to create quiz", result.Error.Error())
	}
	return nil
}

// ========== PROGRESS ==========

func (s *GormStore) ListProgress(ctx context.Context, userID uint) ([]models.UserProgress, error) {
	var records []models.UserProgress
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, errors.Internal("failed to list progress", result.Error.Error())
	}
	return records, nil
}

func (s *GormStore) ListTopicProgress(ctx context.Context, userID, topicID uint) ([]models.UserProgress, error) {
	var records []models.UserProgress
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Order("id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, errors.Internal("failed to list topic progress", result.Error.Error())
	}
	return records, nil
}

func (s *GormStore) CreateProgress(ctx context.Context, progress *models.UserProgress) error {
	if result := s.db.WithContext(ctx).Create(progress); result.Error != nil {
		return errors.Internal("failed to create progress record", result.Error.Error())
	}
	return nil
}

func (s *GormStore) UpdateProgress(ctx context.Context, id uint, update models.ProgressUpdate) (*models.UserProgress, error) {
	var existing models.UserProgress
	result := s.db.WithContext(ctx).First(&existing, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.Internal("failed to fetch progress record", result.Error.Error())
	}

	fields := map[string]interface{}{}
	if update.Completed != nil {
		fields["completed"] = *update.Completed
	}
	if update.Score != nil {
		fields["score"] = *update.Score
	}
	if update.TimeSpentSeconds != nil {
		fields["time_spent_seconds"] = *update.TimeSpentSeconds
	}
	if update.CompletedAt != nil {
		fields["completed_at"] = *update.CompletedAt
	}

	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&models.UserProgress{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, errors.Internal("failed to update progress record", res.Error.Error())
		}
	}

	var updated models.UserProgress
	if res := s.db.WithContext(ctx).First(&updated, id); res.Error != nil {
		return nil, errors.Internal("failed to reload progress record", res.Error.Error())
	}
	return &updated, nil
}

// ========== ACHIEVEMENTS ==========

func (s *GormStore) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	var achievements []models.Achievement
	result := s.db.WithContext(ctx).Order("id ASC").Find(&achievements)
	if result.Error != nil {
		return nil, errors.Internal("failed to list achievements", result.Error.Error())
	}
	return achievements, nil
}

func (s *GormStore) CreateAchievement(ctx context.Context, achievement *models.Achievement) error {
	if result := s.db.WithContext(ctx).Create(achievement); result.Error != nil {
		return errors.Internal("failed to create achievement", result.Error.Error())
	}
	return nil
}

func (s *GormStore) ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var unlocks []models.UserAchievement
	result := s.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at DESC, id DESC").
		Find(&unlocks)
	if result.Error != nil {
		return nil, errors.Internal("failed to list user achievements", result.Error.Error())
	}
	return unlocks, nil
}

func (s *GormStore) CreateUserAchievement(ctx context.Context, userID, achievementID uint) (*models.UserAchievement, error) {
	unlock := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	if result := s.db.WithContext(ctx).Create(unlock); result.Error != nil {
		return nil, errors.Internal("failed to record achievement unlock", result.Error.Error())
	}
	return unlock, nil
}

// ========== TRANSACTIONS ==========

func (s *GormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
