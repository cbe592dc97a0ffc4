package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/middleware"
	"github.com/hnclone/backend/internal/models"
	"github.com/hnclone/backend/internal/services"
)

type SubmissionHandler struct {
	submissions *services.SubmissionService
}

func NewSubmissionHandler(submissions *services.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// idParam parses a positive integer path parameter, answering 400 itself when
// the value is not one.
func idParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

// List returns every submission, newest first.
func (h *SubmissionHandler) List(c *gin.Context) {
	items, err := h.submissions.List(false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Past returns every submission, oldest first.
func (h *SubmissionHandler) Past(c *gin.Context) {
	items, err := h.submissions.List(true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// ByKind returns a list handler fixed to one submission kind.
func (h *SubmissionHandler) ByKind(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.submissions.ListByKind(kind, false)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// Since returns a list handler for submissions created within the past window.
func (h *SubmissionHandler) Since(window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := h.submissions.ListSince(time.Now().UTC().Add(-window))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// Get returns a single submission by ID
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	submission, err := h.submissions.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	view := h.submissions.View(submission)
	c.JSON(http.StatusOK, gin.H{
		"id":            view.ID,
		"title":         view.Title,
		"url":           submission.URL,
		"text":          submission.Text,
		"kind":          submission.Kind,
		"by":            view.By,
		"byId":          view.ByID,
		"createdAt":     view.CreatedAt,
		"votesCount":    view.VotesCount,
		"commentsCount": h.submissions.CommentsCount(submission.ID),
	})
}

// Create creates a new submission (PROTECTED - requires authentication)
func (h *SubmissionHandler) Create(c *gin.Context) {
	var input models.CreateSubmissionRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}

	authorID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	submission, err := h.submissions.Create(authorID, input.Title, input.URL, input.Text, input.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Submission created successfully.",
		"submission": h.submissions.View(submission),
	})
}

// Vote records the caller's upvote on a submission.
func (h *SubmissionHandler) Vote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.submissions.Vote(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission upvoted successfully."})
}

// Unvote withdraws the caller's upvote on a submission.
func (h *SubmissionHandler) Unvote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.submissions.Unvote(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote removed successfully."})
}

// Owner returns the author profile for a submission: who wrote it, what else
// they wrote and what they favorited.
func (h *SubmissionHandler) Owner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.submissions.Owner(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// DeleteOwn deletes the caller's own submission together with its whole
// comment tree and every vote on any of it.
func (h *SubmissionHandler) DeleteOwn(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	submission, err := h.submissions.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if submission.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own submissions"})
		return
	}

	if err := h.submissions.DeleteCascade(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Submission deleted successfully."})
}
