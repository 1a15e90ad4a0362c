package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/architect/mathquest/internal/common/errors"
	"github.com/architect/mathquest/internal/common/middleware"
	"github.com/architect/mathquest/internal/models"
	"github.com/architect/mathquest/internal/services"
)

// UserHandler exposes user lookup and partial update
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser returns a user by id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, user)
}

// UpdateUser applies a partial update; omitted fields keep their value
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid request body", err.Error()))
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, user)
}
