package services

import (
	"context"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/store"
)

// UserService answers user lookups and partial updates
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

// GetUser retrieves a user or a not-found error
func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}
	return user, nil
}

// UpdateUser applies a partial update; only supplied fields change
func (s *UserService) UpdateUser(ctx context.Context, userID uint, req models.UpdateUserRequest) (*models.User, error) {
	updated, err := s.store.UpdateUser(ctx, userID, models.UserUpdate{
		DisplayName: req.DisplayName,
		Level:       req.Level,
		Points:      req.Points,
		Streak:      req.Streak,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.NotFound("user")
	}
	return updated, nil
}
