package services

import (
	"context"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/store"
)

// CurriculumService serves the topic/lesson/quiz browsing surface
type CurriculumService struct {
	store store.Store
}

func NewCurriculumService(s store.Store) *CurriculumService {
	return &CurriculumService{store: s}
}

// ListTopics returns all topics in display order
func (s *CurriculumService) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.store.ListTopics(ctx)
}

// GetTopic retrieves a single topic
func (s *CurriculumService) GetTopic(ctx context.Context, topicID uint) (*models.Topic, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, errors.NotFound("topic")
	}
	return topic, nil
}

// ListLessons returns a topic's lessons in their declared order
func (s *CurriculumService) ListLessons(ctx context.Context, topicID uint) ([]models.Lesson, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, errors.NotFound("topic")
	}
	return s.store.ListLessons(ctx, topicID)
}

// GetLesson retrieves a single lesson
func (s *CurriculumService) GetLesson(ctx context.Context, lessonID uint) (*models.Lesson, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, errors.NotFound("lesson")
	}
	return lesson, nil
}

// ListQuizzes returns quizzes matching the optional topic/lesson filters
func (s *CurriculumService) ListQuizzes(ctx context.Context, filter models.QuizFilter) ([]models.Quiz, error) {
	return s.store.ListQuizzes(ctx, filter)
}

// GetQuiz retrieves a quiz with its questions and options
func (s *CurriculumService) GetQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, errors.NotFound("quiz")
	}
	return quiz, nil
}
