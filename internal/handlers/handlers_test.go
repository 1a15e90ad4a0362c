package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/services"
	"github.com/architect/mathquest/internal/store"
)

type fixture struct {
	router *gin.Engine
	store  store.Store
}

func setupTestRouter(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	dataStore := store.NewGormStore(db)
	router := NewRouter(
		services.NewUserService(dataStore),
		services.NewCurriculumService(dataStore),
		services.NewProgressService(dataStore),
	)

	return &fixture{router: router, store: dataStore}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) seed(t *testing.T) (*models.User, *models.Topic, *models.Lesson) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: "demo", Email: "demo@example.com", Level: 1}
	require.NoError(t, f.store.CreateUser(ctx, user))

	topic := &models.Topic{Title: "Arithmetic", DisplayOrder: 1, LessonsCount: 2}
	require.NoError(t, f.store.CreateTopic(ctx, topic))

	lesson := &models.Lesson{TopicID: topic.ID, Title: "Place Value", OrderInTopic: 1}
	require.NoError(t, f.store.CreateLesson(ctx, lesson))

	return user, topic, lesson
}

func TestHealth(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "GET", "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mathquest_http_requests_total")
}

func TestListTopics(t *testing.T) {
	f := setupTestRouter(t)
	f.seed(t)

	w := f.do(t, "GET", "/api/v1/topics", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Topics []models.Topic `json:"topics"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Arithmetic", resp.Topics[0].Title)
}

func TestGetTopic_NotFound(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "GET", "/api/v1/topics/999", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetTopic_InvalidID(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "GET", "/api/v1/topics/abc", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListLessons(t *testing.T) {
	f := setupTestRouter(t)
	_, topic, _ := f.seed(t)

	w := f.do(t, "GET", fmt.Sprintf("/api/v1/topics/%d/lessons", topic.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Lessons []models.Lesson `json:"lessons"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Lessons, 1)
	assert.Equal(t, "Place Value", resp.Lessons[0].Title)
}

func TestListQuizzes_FilterByTopic(t *testing.T) {
	f := setupTestRouter(t)
	_, topic, lesson := f.seed(t)
	ctx := context.Background()

	require.NoError(t, f.store.CreateQuiz(ctx, &models.Quiz{
		TopicID:  &topic.ID,
		LessonID: &lesson.ID,
		Title:    "Check",
	}))

	w := f.do(t, "GET", fmt.Sprintf("/api/v1/quizzes?topic_id=%d", topic.ID), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Quizzes []models.Quiz `json:"quizzes"`
		Total   int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
}

func TestSubmitProgress_InvalidJSON(t *testing.T) {
	f := setupTestRouter(t)

	req, _ := http.NewRequest("POST", "/api/v1/progress", bytes.NewBufferString("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitProgress_MissingRequiredFields(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
		"topic_id": 1,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitProgress_Flow(t *testing.T) {
	f := setupTestRouter(t)
	user, topic, lesson := f.seed(t)

	w := f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
		"user_id":            user.ID,
		"topic_id":           topic.ID,
		"lesson_id":          lesson.ID,
		"completed":          true,
		"score":              88,
		"time_spent_seconds": 300,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp models.SubmitProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Progress)
	assert.True(t, resp.Progress.Completed)
	assert.Equal(t, 88, *resp.Progress.Score)
	assert.Equal(t, 5, resp.User.TotalStudyMinutes)
}

func TestSubmitProgress_ScoreOutOfRange(t *testing.T) {
	f := setupTestRouter(t)
	user, topic, _ := f.seed(t)

	w := f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
		"user_id":   user.ID,
		"topic_id":  topic.ID,
		"completed": true,
		"score":     150,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	f := setupTestRouter(t)
	user, topic, _ := f.seed(t)

	w := f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
		"user_id":   user.ID,
		"topic_id":  topic.ID,
		"completed": true,
		"score":     90,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, "GET", fmt.Sprintf("/api/v1/users/%d/dashboard", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1/1", resp["topics_display"])
	assert.Equal(t, "90%", resp["average_score_display"])
}

func TestDashboard_UnknownUser(t *testing.T) {
	f := setupTestRouter(t)

	w := f.do(t, "GET", "/api/v1/users/404/dashboard", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProgressOverview(t *testing.T) {
	f := setupTestRouter(t)
	user, topic, lesson := f.seed(t)

	w := f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
		"user_id":   user.ID,
		"topic_id":  topic.ID,
		"lesson_id": lesson.ID,
		"completed": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, "GET", fmt.Sprintf("/api/v1/users/%d/progress", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp services.Overview
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Topics, 1)
	assert.Equal(t, 50, resp.Topics[0].Percentage) // 1 of 2 declared lessons
	require.Len(t, resp.RecentActivity, 1)
}

func TestUpdateUser_Partial(t *testing.T) {
	f := setupTestRouter(t)
	user, _, _ := f.seed(t)

	w := f.do(t, "PATCH", fmt.Sprintf("/api/v1/users/%d", user.ID), map[string]interface{}{
		"display_name": "Ada",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ada", resp.DisplayName)
	assert.Equal(t, "demo", resp.Username)
}

func TestAchievementsCatalogAndUserUnlocks(t *testing.T) {
	f := setupTestRouter(t)
	user, topic, _ := f.seed(t)
	ctx := context.Background()

	require.NoError(t, f.store.CreateAchievement(ctx, &models.Achievement{
		Slug:         "speed-learner",
		Title:        "Speed Learner",
		Requirement:  models.RequirementLessons3In1Hour,
		PointsReward: 150,
	}))

	w := f.do(t, "GET", "/api/v1/achievements", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "speed-learner")

	// Three quick completions trigger the burst requirement
	for i := 0; i < 3; i++ {
		lesson := &models.Lesson{TopicID: topic.ID, Title: fmt.Sprintf("L%d", i+2), OrderInTopic: i + 2}
		require.NoError(t, f.store.CreateLesson(ctx, lesson))

		w = f.do(t, "POST", "/api/v1/progress", map[string]interface{}{
			"user_id":   user.ID,
			"topic_id":  topic.ID,
			"lesson_id": lesson.ID,
			"completed": true,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = f.do(t, "GET", fmt.Sprintf("/api/v1/users/%d/achievements", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Achievements []models.UserAchievement `json:"achievements"`
		Total        int                      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	require.NotNil(t, resp.Achievements[0].Achievement)
	assert.Equal(t, "speed-learner", resp.Achievements[0].Achievement.Slug)
}
