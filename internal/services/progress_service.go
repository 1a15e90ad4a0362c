package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/architect/mathquest/internal/achievements"
	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/common/validation"
	"github.com/architect/mathquest/internal/metrics"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/progress"
	"github.com/architect/mathquest/internal/store"
	"github.com/architect/mathquest/pkg/logger"
)

// RecentActivityLimit caps the progress page activity feed
const RecentActivityLimit = 5

// ProgressService owns submissions, the dashboard/progress views, and the
// achievement award flow.
type ProgressService struct {
	store store.Store
}

func NewProgressService(s store.Store) *ProgressService {
	return &ProgressService{store: s}
}

// Overview is the progress page view model
type Overview struct {
	Topics         []progress.TopicProgress `json:"topics"`
	RecentActivity []progress.Activity      `json:"recent_activity"`
}

// GetDashboard assembles the dashboard view model for a user
func (s *ProgressService) GetDashboard(ctx context.Context, userID uint) (*progress.Dashboard, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocks, err := s.store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	return progress.ComputeDashboard(user, topics, records, unlocks)
}

// GetOverview assembles the per-topic progress rows and the recent activity feed
func (s *ProgressService) GetOverview(ctx context.Context, userID uint) (*Overview, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}

	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Topics:         progress.ComputeTopicProgress(topics, records),
		RecentActivity: progress.ComputeRecentActivity(topics, records, RecentActivityLimit),
	}, nil
}

// ListUserAchievements returns a user's unlocks with achievement detail
func (s *ProgressService) ListUserAchievements(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}
	return s.store.ListUserAchievements(ctx, userID)
}

// ListAchievements returns the achievement catalog
func (s *ProgressService) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	return s.store.ListAchievements(ctx)
}

// SubmitProgress records a completion event, maintains the user's study time
// and streak, and awards any achievements the event newly qualifies for.
func (s *ProgressService) SubmitProgress(ctx context.Context, req models.SubmitProgressRequest) (*models.SubmitProgressResponse, error) {
	if errs := validation.Validate(req); len(errs) > 0 {
		return nil, errors.Validation("invalid progress submission", errs[0].Field+": "+errs[0].Message)
	}

	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}

	topic, err := s.store.GetTopic(ctx, req.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, errors.NotFound("topic")
	}

	if req.LessonID != nil {
		lesson, err := s.store.GetLesson(ctx, *req.LessonID)
		if err != nil {
			return nil, err
		}
		if lesson == nil {
			return nil, errors.NotFound("lesson")
		}
		if lesson.TopicID != req.TopicID {
			return nil, errors.BadRequest("lesson does not belong to topic")
		}
	}

	now := time.Now()
	record, err := s.upsertProgress(ctx, req, now)
	if err != nil {
		return nil, err
	}
	metrics.ProgressSubmissions.Inc()

	if err := s.touchUser(ctx, user, req, now); err != nil {
		return nil, err
	}

	unlocked, err := s.awardUnlocks(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	refreshed, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	return &models.SubmitProgressResponse{
		Progress:             record,
		UnlockedAchievements: unlocked,
		User:                 refreshed,
	}, nil
}

// upsertProgress merges the submission into an existing record for the same
// (user, topic, lesson) or creates a fresh one.
func (s *ProgressService) upsertProgress(ctx context.Context, req models.SubmitProgressRequest, now time.Time) (*models.UserProgress, error) {
	existing, err := s.store.ListTopicProgress(ctx, req.UserID, req.TopicID)
	if err != nil {
		return nil, err
	}

	var match *models.UserProgress
	for i := range existing {
		if sameLessonRef(existing[i].LessonID, req.LessonID) {
			match = &existing[i]
			break
		}
	}

	completed := req.Completed != nil && *req.Completed

	if match != nil {
		update := models.ProgressUpdate{
			Completed:        req.Completed,
			Score:            req.Score,
			TimeSpentSeconds: req.TimeSpentSeconds,
		}
		if completed && match.CompletedAt == nil {
			update.CompletedAt = &now
		}
		return s.store.UpdateProgress(ctx, match.ID, update)
	}

	record := &models.UserProgress{
		UserID:           req.UserID,
		TopicID:          req.TopicID,
		LessonID:         req.LessonID,
		Completed:        completed,
		Score:            req.Score,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}
	if completed {
		record.CompletedAt = &now
	}
	if err := s.store.CreateProgress(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// touchUser folds the submission into study time, streak and last-activity
func (s *ProgressService) touchUser(ctx context.Context, user *models.User, req models.SubmitProgressRequest, now time.Time) error {
	minutes := user.TotalStudyMinutes
	if req.TimeSpentSeconds != nil {
		minutes += *req.TimeSpentSeconds / 60
	}
	streak := nextStreak(user.LastActivityAt, now, user.Streak)

	_, err := s.store.UpdateUser(ctx, user.ID, models.UserUpdate{
		TotalStudyMinutes: &minutes,
		Streak:            &streak,
		LastActivityAt:    &now,
	})
	return err
}

// awardUnlocks evaluates the requirement predicates against fresh history and
// persists each new unlock together with its points reward as one transaction:
// the unlock record and the balance update commit or roll back together.
func (s *ProgressService) awardUnlocks(ctx context.Context, userID uint) ([]models.Achievement, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	already, err := s.store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	eligible := achievements.EvaluateUnlocks(user, history, catalog, already)
	unlocked := make([]models.Achievement, 0, len(eligible))

	for _, achievement := range eligible {
		achievement := achievement
		err := s.store.WithTx(ctx, func(tx store.Store) error {
			if _, err := tx.CreateUserAchievement(ctx, userID, achievement.ID); err != nil {
				return err
			}
			current, err := tx.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			points := current.Points + achievement.PointsReward
			level := points/progress.XPPerLevel + 1
			_, err = tx.UpdateUser(ctx, userID, models.UserUpdate{
				Points: &points,
				Level:  &level,
			})
			return err
		})
		if err != nil {
			// A lost race on the (user, achievement) unique index lands here;
			// skip the award rather than failing the submission.
			logger.Warn("achievement award skipped",
				zap.Uint("user_id", userID),
				zap.String("slug", achievement.Slug),
				zap.Error(err),
			)
			continue
		}
		metrics.AchievementUnlocks.Inc()
		unlocked = append(unlocked, achievement)
	}

	return unlocked, nil
}

func sameLessonRef(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// nextStreak advances the consecutive-study-days counter: unchanged within the
// same calendar day, incremented the day after, otherwise back to 1.
func nextStreak(last *time.Time, now time.Time, current int) int {
	if last == nil {
		return 1
	}
	lastDay := truncateToDay(*last)
	today := truncateToDay(now)

	switch days := int(today.Sub(lastDay).Hours() / 24); days {
	case 0:
		if current < 1 {
			return 1
		}
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
