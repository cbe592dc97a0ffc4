package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/services"
)

// AdminHandler carries the moderation surface. Every route behind it sits
// behind both AuthRequired and RequireAdmin.
type AdminHandler struct {
	users       *services.UserService
	submissions *services.SubmissionService
	comments    *services.CommentService
}

func NewAdminHandler(users *services.UserService, submissions *services.SubmissionService, comments *services.CommentService) *AdminHandler {
	return &AdminHandler{users: users, submissions: submissions, comments: comments}
}

// BlockUser blocks a user either temporarily (one week) or permanently.
func (h *AdminHandler) BlockUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input struct {
		BlockingType string `json:"blockingType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blockingType is required"})
		return
	}

	if err := h.users.Block(id, input.BlockingType); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User blocked successfully."})
}

// UnblockUser lifts a block regardless of its type.
func (h *AdminHandler) UnblockUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Unblock(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unblocked successfully."})
}

// DeleteSubmission removes a submission, its whole comment tree and every
// vote and favorite on any of them.
func (h *AdminHandler) DeleteSubmission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.submissions.FindByID(id); err != nil {
		respondError(c, err)
		return
	}

	if err := h.submissions.DeleteCascade(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission and its comments deleted successfully."})
}

// DeleteComment removes a comment subtree and answers with a snapshot of the
// comment that was removed.
func (h *AdminHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	snapshot := h.comments.View(comment)

	if err := h.comments.DeleteWithChildren(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment and its children deleted successfully.",
		"comment": snapshot,
	})
}

// ListUsers returns every registered user.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.All()
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]services.UserView, 0, len(users))
	for i := range users {
		views = append(views, services.UserToView(&users[i]))
	}

	c.JSON(http.StatusOK, views)
}

// FindUser looks a user up by username, case-insensitively.
func (h *AdminHandler) FindUser(c *gin.Context) {
	user, err := h.users.FindByUsername(c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	view := services.UserToView(user)
	c.JSON(http.StatusOK, gin.H{
		"id":           view.ID,
		"username":     view.Username,
		"createdAt":    view.CreatedAt,
		"karma":        view.Karma,
		"about":        user.About,
		"isBlocked":    user.IsBlocked,
		"blockedUntil": user.BlockedUntil,
	})
}
