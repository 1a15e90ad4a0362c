package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return store.NewGormStore(db)
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
func timePtr(v time.Time) *time.Time {
	return &v
}

func seedBasics(t *testing.T, s store.Store) (*models.User, *models.Topic, *models.Lesson) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: "demo", Email: "demo@example.com", Level: 1}
	require.NoError(t, s.CreateUser(ctx, user))

	topic := &models.Topic{Title: "Arithmetic", DisplayOrder: 1, LessonsCount: 3}
	require.NoError(t, s.CreateTopic(ctx, topic))

	lesson := &models.Lesson{TopicID: topic.ID, Title: "Place Value", OrderInTopic: 1}
	require.NoError(t, s.CreateLesson(ctx, lesson))

	return user, topic, lesson
}

func TestSubmitProgress_UnknownUser(t *testing.T) {
	svc := NewProgressService(newTestStore(t))

	_, err := svc.SubmitProgress(context.Background(), models.SubmitProgressRequest{
		UserID:    99,
		TopicID:   1,
		Completed: boolPtr(true),
	})

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSubmitProgress_LessonTopicMismatch(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, _, lesson := seedBasics(t, s)
	otherTopic := &models.Topic{Title: "Fractions", DisplayOrder: 2}
	require.NoError(t, s.CreateTopic(ctx, otherTopic))

	_, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   otherTopic.ID,
		LessonID:  &lesson.ID,
		Completed: boolPtr(true),
	})

	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, errors.CodeBadRequest, appErr.Code)
}

func TestSubmitProgress_CreatesRecordAndTouchesUser(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, lesson := seedBasics(t, s)

	resp, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:           user.ID,
		TopicID:          topic.ID,
		LessonID:         &lesson.ID,
		Completed:        boolPtr(true),
		Score:            intPtr(85),
		TimeSpentSeconds: intPtr(600),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Progress)
	assert.True(t, resp.Progress.Completed)
	assert.Equal(t, 85, *resp.Progress.Score)
	require.NotNil(t, resp.Progress.CompletedAt)

	require.NotNil(t, resp.User)
	assert.Equal(t, 10, resp.User.TotalStudyMinutes)
	assert.Equal(t, 1, resp.User.Streak)
	require.NotNil(t, resp.User.LastActivityAt)
}

func TestSubmitProgress_MergesExistingRecord(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, lesson := seedBasics(t, s)

	first, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		LessonID:  &lesson.ID,
		Completed: boolPtr(false),
		Score:     intPtr(60),
	})
	require.NoError(t, err)

	second, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		LessonID:  &lesson.ID,
		Completed: boolPtr(true),
		Score:     intPtr(90),
	})
	require.NoError(t, err)

	// Same record, updated in place
	assert.Equal(t, first.Progress.ID, second.Progress.ID)
	assert.True(t, second.Progress.Completed)
	assert.Equal(t, 90, *second.Progress.Score)

	records, err := s.ListProgress(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitProgress_TopicLevelRecordSeparateFromLessonRecord(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, lesson := seedBasics(t, s)

	_, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		LessonID:  &lesson.ID,
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	_, err = svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	records, err := s.ListProgress(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSubmitProgress_AwardsStreakAchievement(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, _ := seedBasics(t, s)

	require.NoError(t, s.CreateAchievement(ctx, &models.Achievement{
		Slug:         "week-warrior",
		Title:        "Week Warrior",
		Requirement:  models.RequirementStreak7Days,
		PointsReward: 200,
	}))

	// Six-day streak with the last study day yesterday: today's submission
	// advances it to seven.
	yesterday := time.Now().AddDate(0, 0, -1)
	streak := 6
	_, err := s.UpdateUser(ctx, user.ID, models.UserUpdate{
		Streak:         &streak,
		LastActivityAt: &yesterday,
	})
	require.NoError(t, err)

	resp, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	require.Len(t, resp.UnlockedAchievements, 1)
	assert.Equal(t, "week-warrior", resp.UnlockedAchievements[0].Slug)

	// Unlock record and points reward committed together
	unlocks, err := s.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocks, 1)

	assert.Equal(t, 7, resp.User.Streak)
	assert.Equal(t, 200, resp.User.Points)
	assert.Equal(t, 1, resp.User.Level)
}

func TestSubmitProgress_DoesNotAwardTwice(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, _ := seedBasics(t, s)

	require.NoError(t, s.CreateAchievement(ctx, &models.Achievement{
		Slug:         "quiz-master",
		Title:        "Quiz Master",
		Requirement:  models.RequirementQuiz90Percent5Times,
		PointsReward: 300,
	}))

	for i := 0; i < 5; i++ {
		lesson := &models.Lesson{TopicID: topic.ID, Title: fmt.Sprintf("L%d", i), OrderInTopic: i + 1}
		require.NoError(t, s.CreateLesson(ctx, lesson))

		resp, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
			UserID:    user.ID,
			TopicID:   topic.ID,
			LessonID:  &lesson.ID,
			Completed: boolPtr(true),
			Score:     intPtr(95),
		})
		require.NoError(t, err)

		if i < 4 {
			assert.Empty(t, resp.UnlockedAchievements)
		} else {
			require.Len(t, resp.UnlockedAchievements, 1)
			assert.Equal(t, "quiz-master", resp.UnlockedAchievements[0].Slug)
		}
	}

	// One more qualifying submission must not re-award
	extra := &models.Lesson{TopicID: topic.ID, Title: "L6", OrderInTopic: 6}
	require.NoError(t, s.CreateLesson(ctx, extra))

	resp, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		LessonID:  &extra.ID,
		Completed: boolPtr(true),
		Score:     intPtr(99),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.UnlockedAchievements)

	unlocks, err := s.ListUserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocks, 1)
}

func TestSubmitProgress_LevelsUpOnAward(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, _ := seedBasics(t, s)

	require.NoError(t, s.CreateAchievement(ctx, &models.Achievement{
		Slug:         "week-warrior",
		Title:        "Week Warrior",
		Requirement:  models.RequirementStreak7Days,
		PointsReward: 200,
	}))

	yesterday := time.Now().AddDate(0, 0, -1)
	streak := 6
	points := 900
	_, err := s.UpdateUser(ctx, user.ID, models.UserUpdate{
		Streak:         &streak,
		Points:         &points,
		LastActivityAt: &yesterday,
	})
	require.NoError(t, err)

	resp, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	// 900 + 200 crosses the 1000-point boundary
	assert.Equal(t, 1100, resp.User.Points)
	assert.Equal(t, 2, resp.User.Level)
}

func TestGetDashboard_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, lesson := seedBasics(t, s)

	_, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:           user.ID,
		TopicID:          topic.ID,
		LessonID:         &lesson.ID,
		Completed:        boolPtr(true),
		Score:            intPtr(92),
		TimeSpentSeconds: intPtr(3600),
	})
	require.NoError(t, err)

	dashboard, err := svc.GetDashboard(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, "0/1", dashboard.TopicsDisplay) // lesson done, topic not
	assert.Equal(t, 92, dashboard.AverageScore)
	assert.Equal(t, "1h 0m", dashboard.StudyTimeDisplay)
	assert.Equal(t, 1, dashboard.LevelProgress.Level)
}

func TestGetDashboard_UnknownUser(t *testing.T) {
	svc := NewProgressService(newTestStore(t))

	_, err := svc.GetDashboard(context.Background(), 404)

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetOverview_EndToEnd(t *testing.T) {
	s := newTestStore(t)
	svc := NewProgressService(s)
	ctx := context.Background()

	user, topic, lesson := seedBasics(t, s)

	_, err := svc.SubmitProgress(ctx, models.SubmitProgressRequest{
		UserID:    user.ID,
		TopicID:   topic.ID,
		LessonID:  &lesson.ID,
		Completed: boolPtr(true),
		Score:     intPtr(75),
	})
	require.NoError(t, err)

	overview, err := svc.GetOverview(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, overview.Topics, 1)
	assert.Equal(t, 1, overview.Topics[0].CompletedLessons)
	assert.Equal(t, 33, overview.Topics[0].Percentage) // 1 of 3 declared lessons
	require.Len(t, overview.RecentActivity, 1)
	assert.Equal(t, "Arithmetic", overview.RecentActivity[0].TopicTitle)
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, nextStreak(nil, now, 0))
	assert.Equal(t, 4, nextStreak(timePtr(now.Add(-2*time.Hour)), now, 4))
	assert.Equal(t, 5, nextStreak(timePtr(now.AddDate(0, 0, -1)), now, 4))
	assert.Equal(t, 1, nextStreak(timePtr(now.AddDate(0, 0, -3)), now, 4))
}
