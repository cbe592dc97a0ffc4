package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/auth"
	"github.com/hnclone/backend/internal/models"
	"github.com/hnclone/backend/internal/services"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	users  *services.UserService
	tokens *auth.TokenService
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(input.Username, input.Password, input.Role)
	if err != nil {
		// A taken username is the one conflict clients expect as 409.
		var conflictErr *services.ConflictError
		if errors.As(err, &conflictErr) {
			c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    services.UserToView(user),
	})
}

// Login verifies credentials, issues an access token and sets the refresh
// token as an HttpOnly cookie so scripts never see it.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := h.tokens.GeneratePair(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	c.JSON(http.StatusOK, gin.H{
		"accessToken": pair.AccessToken,
		"user":        services.UserToView(user),
	})
}

// Refresh rotates the refresh token from the cookie and returns a fresh
// access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	oldToken, err := c.Cookie(refreshCookie)
	if err != nil || oldToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token missing"})
		return
	}

	pair, _, err := h.tokens.Refresh(oldToken)
	if err != nil {
		h.clearRefreshCookie(c)
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair.RefreshToken)

	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// Logout revokes the refresh token and clears the cookie. Always succeeds,
// even when the cookie is already gone.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(refreshCookie); err == nil && token != "" {
		if err := h.tokens.Revoke(token); err != nil {
			respondError(c, err)
			return
		}
	}

	h.clearRefreshCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, token, int(auth.RefreshTokenTTL.Seconds()), "/", "", false, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", false, true)
}
