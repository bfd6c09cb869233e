package handlers

import (
	"errors"
	"net/http"

	"github.com/mgayathri3/SecureSignIn/internal/auth"
	"github.com/mgayathri3/SecureSignIn/internal/dto"
	"github.com/mgayathri3/SecureSignIn/internal/repo"
	"github.com/mgayathri3/SecureSignIn/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the current-user view and profile updates. Both routes
// sit behind auth.RequireSession.
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// CurrentUser godoc
// @Summary      Get the authenticated user
// @Tags         user
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Router       /user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	user, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// The session points at an account that no longer exists.
			// Clear the cookie so the client drops the dangling session.
			clearSessionCookie(c)
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// UpdateProfile godoc
// @Summary      Update profile fields
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body  dto.UpdateProfileRequest  true  "Fields to change"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Router       /profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	userID := auth.UserIDFromContext(c)
	user, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, repo.ProfileUpdate{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already taken"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already taken"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Profile updated successfully",
		User:    dto.NewUserResponse(user),
	})
}
