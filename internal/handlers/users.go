package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/middleware"
	"github.com/hnclone/backend/internal/services"
)

type UserHandler struct {
	users       *services.UserService
	submissions *services.SubmissionService
}

func NewUserHandler(users *services.UserService, submissions *services.SubmissionService) *UserHandler {
	return &UserHandler{users: users, submissions: submissions}
}

// Me returns the authenticated user's own record.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := h.users.FindByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view := services.UserToView(user)
	c.JSON(http.StatusOK, gin.H{
		"id":        view.ID,
		"username":  view.Username,
		"createdAt": view.CreatedAt,
		"karma":     view.Karma,
		"about":     user.About,
		"role":      user.Role,
	})
}

// Profile returns the public profile of a user by username.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := h.users.FindByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.submissions.ProfileOf(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateAbout replaces the caller's about text.
func (h *UserHandler) UpdateAbout(c *gin.Context) {
	var input struct {
		About string `json:"about"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.users.UpdateAbout(userID, input.About); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "About updated successfully."})
}

// ChangePassword sets a new password after checking the old one.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var input struct {
		OldPassword string `json:"oldPassword" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.users.ChangePassword(userID, input.OldPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}

// Vote upvotes another user by username, bumping their karma by one.
func (h *UserHandler) Vote(c *gin.Context) {
	target, err := h.users.FindByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	voterID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	karma, err := h.users.VoteUser(target.ID, voterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User upvoted", "karma": karma})
}

// Unvote withdraws the caller's upvote on another user.
func (h *UserHandler) Unvote(c *gin.Context) {
	target, err := h.users.FindByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	voterID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	karma, err := h.users.UnvoteUser(target.ID, voterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User vote removed", "karma": karma})
}

// FavoriteSubmission adds a submission to the caller's favorites.
func (h *UserHandler) FavoriteSubmission(c *gin.Context) {
	h.favorite(c, h.users.FavoriteSubmission, "Submission added to favorites.")
}

// UnfavoriteSubmission removes a submission from the caller's favorites.
func (h *UserHandler) UnfavoriteSubmission(c *gin.Context) {
	h.favorite(c, h.users.UnfavoriteSubmission, "Submission removed from favorites.")
}

// FavoriteComment adds a comment to the caller's favorites.
func (h *UserHandler) FavoriteComment(c *gin.Context) {
	h.favorite(c, h.users.FavoriteComment, "Comment added to favorites.")
}

// UnfavoriteComment removes a comment from the caller's favorites.
func (h *UserHandler) UnfavoriteComment(c *gin.Context) {
	h.favorite(c, h.users.UnfavoriteComment, "Comment removed from favorites.")
}

func (h *UserHandler) favorite(c *gin.Context, op func(userID, targetID int) error, message string) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := op(userID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
