package handlers

import (
	"errors"
	"net/http"

	"github.com/mgayathri3/SecureSignIn/internal/auth"
	dom "github.com/mgayathri3/SecureSignIn/internal/domain"
	"github.com/mgayathri3/SecureSignIn/internal/dto"
	"github.com/mgayathri3/SecureSignIn/internal/service"

	"github.com/gin-gonic/gin"
)

const sessionCookieMaxAge = 24 * 60 * 60 // seconds, matches the session TTL

// AuthHandler handles login, signup and logout.
type AuthHandler struct {
	sessions auth.SessionStore
	userSvc  *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(sessions auth.SessionStore, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	user, err := h.userSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		User:    dto.NewUserResponse(user),
	})
}

// Signup godoc
// @Summary      Create an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignupRequest  true  "Account fields"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.MessageResponse
// @Failure      500   {object}  dto.MessageResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": err.Error()})
		return
	}
	user, err := h.userSvc.Signup(c.Request.Context(), service.SignupParams{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Role:         dom.Role(req.Role),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation error", "errors": "role must be Standard or Privileged"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return
	}
	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "Account created successfully",
		User:    dto.NewUserResponse(user),
	})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(auth.SessionCookieName)
	if err == nil && token != "" {
		if err := h.sessions.Delete(c.Request.Context(), token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not log out"})
			return
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(auth.SessionCookieName, token, sessionCookieMaxAge, "/", "", false, true) // httpOnly
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
}
