package handlers

import (
	"errors"
	"net/http"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
	"flota-backend/internal/services"
	"flota-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *services.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// GetUsers lists every account
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve users", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

// ApproveUser grants a pending account access with a role
func (h *UserHandler) ApproveUser(c *gin.Context) {
	id := c.Param("id")

	var req services.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	user, err := h.userService.ApproveUser(id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "User not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to approve user", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User approved successfully", user)
}

// UpdateUser changes an account's role, cost center or alert settings
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	user, err := h.userService.UpdateUser(id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "User not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to update user", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User updated successfully", user)
}

// DeleteUser removes an account. Only the ADMIN role may delete.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	if !models.CanDelete(c.GetString("role")) {
		utils.ErrorResponse(c, http.StatusForbidden, "Deletion requires the ADMIN role", nil)
		return
	}

	if err := h.userService.DeleteUser(id, c.GetString("user_id")); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "User not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to delete user", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
