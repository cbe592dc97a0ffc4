package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hnclone/backend/internal/middleware"
	"github.com/hnclone/backend/internal/models"
	"github.com/hnclone/backend/internal/services"
)

type CommentHandler struct {
	comments    *services.CommentService
	submissions *services.SubmissionService
}

func NewCommentHandler(comments *services.CommentService, submissions *services.SubmissionService) *CommentHandler {
	return &CommentHandler{comments: comments, submissions: submissions}
}

// CreateOnSubmission posts a new top-level comment on a submission.
func (h *CommentHandler) CreateOnSubmission(c *gin.Context) {
	submissionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required."})
		return
	}

	authorID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	comment, err := h.comments.Create(authorID, input.Text, submissionID, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully.",
		"comment": h.comments.View(comment),
	})
}

// Reply posts a child comment under an existing one. The child lands on the
// same submission as its parent.
func (h *CommentHandler) Reply(c *gin.Context) {
	parentID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text is required."})
		return
	}

	authorID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	parent, err := h.comments.FindByID(parentID)
	if err != nil {
		respondError(c, err)
		return
	}

	comment, err := h.comments.Create(authorID, input.Text, parent.SubmissionID, &parent.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reply created successfully.",
		"comment": h.comments.View(comment),
	})
}

// ListForSubmission returns every comment on a submission as a flat list,
// oldest first.
func (h *CommentHandler) ListForSubmission(c *gin.Context) {
	submissionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.submissions.FindByID(submissionID); err != nil {
		respondError(c, err)
		return
	}

	views, err := h.comments.AllForSubmission(submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

// All returns every comment on the site, oldest first.
func (h *CommentHandler) All(c *gin.Context) {
	views, err := h.comments.All()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// Vote records the caller's upvote on a comment.
func (h *CommentHandler) Vote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.comments.Vote(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment upvoted successfully."})
}

// Unvote withdraws the caller's upvote on a comment.
func (h *CommentHandler) Unvote(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	userID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.comments.Unvote(id, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vote removed successfully."})
}

// Parent returns the parent of a comment, or 404 when it is a root.
func (h *CommentHandler) Parent(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	parent, err := h.comments.Parent(comment)
	if err != nil {
		respondError(c, err)
		return
	}
	if parent == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No parent comment found."})
		return
	}

	c.JSON(http.StatusOK, h.comments.View(parent))
}

// Context returns the submission URL (when there is one) plus the full flat
// comment list of the submission the comment sits on.
func (h *CommentHandler) Context(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ctx, err := h.comments.Context(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ctx)
}

// Submission returns the submission a comment belongs to.
func (h *CommentHandler) Submission(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	submission, err := h.comments.SubmissionOf(comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.submissions.View(submission))
}

// Owner returns the profile of the comment's author.
func (h *CommentHandler) Owner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.submissions.ProfileOf(comment.AuthorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Previous returns the previous sibling by creation time, or JSON null.
func (h *CommentHandler) Previous(c *gin.Context) {
	h.sibling(c, h.comments.Previous)
}

// Next returns the next sibling by creation time, or JSON null.
func (h *CommentHandler) Next(c *gin.Context) {
	h.sibling(c, h.comments.Next)
}

func (h *CommentHandler) sibling(c *gin.Context, pick func(*models.Comment) (*models.Comment, error)) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	comment, err := h.comments.FindByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	sib, err := pick(comment)
	if err != nil {
		respondError(c, err)
		return
	}
	if sib == nil {
		// The end of the sibling chain is data, not an error.
		c.JSON(http.StatusOK, nil)
		return
	}

	c.JSON(http.StatusOK, h.comments.View(sib))
}

// Children returns the direct children of a comment, oldest first.
func (h *CommentHandler) Children(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.comments.FindByID(id); err != nil {
		respondError(c, err)
		return
	}

	children, err := h.comments.Children(id)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]services.CommentView, 0, len(children))
	for i := range children {
		views = append(views, h.comments.View(&children[i]))
	}

	c.JSON(http.StatusOK, views)
}
