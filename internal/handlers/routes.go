package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/architect/mathquest/internal/common/middleware"
	"github.com/architect/mathquest/internal/metrics"
	"github.com/architect/mathquest/internal/services"
)

// NewRouter wires middleware and all API routes onto a fresh gin engine
func NewRouter(users *services.UserService, curriculum *services.CurriculumService, progress *services.ProgressService) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(metrics.Middleware())

	userHandler := NewUserHandler(users)
	curriculumHandler := NewCurriculumHandler(curriculum)
	progressHandler := NewProgressHandler(progress)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"app":    "mathquest",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/topics", curriculumHandler.ListTopics)
		v1.GET("/topics/:id", curriculumHandler.GetTopic)
		v1.GET("/topics/:id/lessons", curriculumHandler.ListLessons)
		v1.GET("/lessons/:id", curriculumHandler.GetLesson)
		v1.GET("/quizzes", curriculumHandler.ListQuizzes)
		v1.GET("/quizzes/:id", curriculumHandler.GetQuiz)

		v1.POST("/progress", progressHandler.SubmitProgress)

		v1.GET("/users/:id", userHandler.GetUser)
		v1.PATCH("/users/:id", userHandler.UpdateUser)
		v1.GET("/users/:id/dashboard", progressHandler.GetDashboard)
		v1.GET("/users/:id/progress", progressHandler.GetOverview)
		v1.GET("/users/:id/achievements", progressHandler.ListUserAchievements)

		v1.GET("/achievements", progressHandler.ListAchievements)
	}

	return router
}
