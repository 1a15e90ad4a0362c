package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/common/middleware"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/services"
)

// CurriculumHandler exposes the topic/lesson/quiz browsing endpoints
type CurriculumHandler struct {
	curriculum *services.CurriculumService
}

func NewCurriculumHandler(curriculum *services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

// ListTopics returns the syllabus in display order
func (h *CurriculumHandler) ListTopics(c *gin.Context) {
	topics, err := h.curriculum.ListTopics(c.Request.Context())
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"topics": topics,
		"total":  len(topics),
	})
}

// GetTopic returns a single topic
func (h *CurriculumHandler) GetTopic(c *gin.Context) {
	topicID, ok := parseID(c, "id")
	if !ok {
		return
	}

	topic, err := h.curriculum.GetTopic(c.Request.Context(), topicID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, topic)
}

// ListLessons returns a topic's lessons in order
func (h *CurriculumHandler) ListLessons(c *gin.Context) {
	topicID, ok := parseID(c, "id")
	if !ok {
		return
	}

	lessons, err := h.curriculum.ListLessons(c.Request.Context(), topicID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"lessons": lessons,
		"total":   len(lessons),
	})
}

// GetLesson returns a single lesson
func (h *CurriculumHandler) GetLesson(c *gin.Context) {
	lessonID, ok := parseID(c, "id")
	if !ok {
		return
	}

	lesson, err := h.curriculum.GetLesson(c.Request.Context(), lessonID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, lesson)
}

// ListQuizzes returns quizzes, optionally filtered by topic_id / lesson_id
func (h *CurriculumHandler) ListQuizzes(c *gin.Context) {
	var filter models.QuizFilter

	if raw := c.Query("topic_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			middleware.JSONErrorResponse(c, errors.BadRequest("invalid topic_id"))
			return
		}
		topicID := uint(id)
		filter.TopicID = &topicID
	}
	if raw := c.Query("lesson_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			middleware.JSONErrorResponse(c, errors.BadRequest("invalid lesson_id"))
			return
		}
		lessonID := uint(id)
		filter.LessonID = &lessonID
	}

	quizzes, err := h.curriculum.ListQuizzes(c.Request.Context(), filter)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, gin.H{
		"quizzes": quizzes,
		"total":   len(quizzes),
	})
}

// GetQuiz returns a quiz with questions and options
func (h *CurriculumHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}

	quiz, err := h.curriculum.GetQuiz(c.Request.Context(), quizID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, quiz)
}

// parseID pulls a numeric path parameter, answering 400 itself on garbage
func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
