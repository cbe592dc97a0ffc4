package services

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/hnclone/backend/internal/models"
)

// maxThreadDepth bounds the recursive cascade delete. Creation rules cannot
// produce a cycle, but a corrupted parent pointer must not take the process
// down with unbounded recursion.
const maxThreadDepth = 512

// CommentService owns the comment tree: creation, parent/child linkage,
// cascading deletion, sibling navigation and vote bookkeeping.
type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create inserts a new comment under a submission, optionally as a reply to
// parentID. The submission and author memberships live on the row itself, so
// the insert is a single atomic write.
func (s *CommentService) Create(authorID int, text string, submissionID int, parentID *int) (*models.Comment, error) {
	if authorID == 0 || text == "" || submissionID == 0 {
		return nil, &ValidationError{Message: "Missing parameters for new comment."}
	}

	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Submission not found"}
		}
		return nil, err
	}

	if parentID != nil {
		parent, err := s.FindByID(*parentID)
		if err != nil {
			return nil, err
		}
		if parent.SubmissionID != submissionID {
			return nil, &ValidationError{Message: "Parent comment belongs to a different submission."}
		}
	}

	comment := models.Comment{
		Text:         text,
		AuthorID:     authorID,
		SubmissionID: submissionID,
		ParentID:     parentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Author").First(&comment, comment.ID)
	return &comment, nil
}

func (s *CommentService) FindByID(id int) (*models.Comment, error) {
	if id == 0 {
		return nil, &ValidationError{Message: "Comment id required."}
	}
	var comment models.Comment
	if err := s.db.Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Comment not found."}
		}
		return nil, err
	}
	return &comment, nil
}

// DeleteWithChildren removes a comment and every descendant, leaves first, so
// a crash mid-cascade leaves a smaller but consistent subtree instead of
// replies pointing at a deleted parent. Re-invoking after a partial failure is
// safe: already-deleted children are skipped.
func (s *CommentService) DeleteWithChildren(id int) error {
	if err := s.deleteSubtree(id, 0); err != nil {
		return err
	}

	// A reply inserted concurrently with the cascade can survive as an
	// orphan. Non-fatal; surfaced in the log for the periodic cleanup.
	var late int64
	s.db.Model(&models.Comment{}).Where("parent_id = ?", id).Count(&late)
	if late > 0 {
		log.Printf("cascade delete of comment %d left %d orphaned replies", id, late)
	}
	return nil
}

func (s *CommentService) deleteSubtree(id, depth int) error {
	if depth > maxThreadDepth {
		return &ValidationError{Message: "Comment thread too deep to delete."}
	}

	comment, err := s.FindByID(id)
	if err != nil {
		return err
	}

	var children []models.Comment
	if err := s.db.Where("parent_id = ?", id).Order("created_at asc, id asc").Find(&children).Error; err != nil {
		return err
	}
	for i := range children {
		if err := s.deleteSubtree(children[i].ID, depth+1); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
	}

	// Children are gone; drop everything referencing this node, then the node.
	if err := s.db.Where("comment_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("comment_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
		return err
	}
	return s.db.Delete(comment).Error
}

// Vote records userID's upvote. Row existence in the votes table is the sole
// source of truth, and the unique index makes the insert the at-most-once
// check, so there is no membership read to race against.
func (s *CommentService) Vote(commentID, userID int) error {
	if _, err := s.FindByID(commentID); err != nil {
		return err
	}

	vote := models.Vote{UserID: userID, CommentID: &commentID}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: "You have already voted for this comment"}
		}
		return err
	}
	return nil
}

// Unvote removes userID's vote, failing when no vote was recorded.
func (s *CommentService) Unvote(commentID, userID int) error {
	if _, err := s.FindByID(commentID); err != nil {
		return err
	}

	res := s.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.Vote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Message: "You have not voted for this comment."}
	}
	return nil
}

// Previous returns the sibling with the latest creation time strictly before
// c within the same submission, or nil. Equal timestamps fall back to the id
// ordering so navigation stays deterministic.
func (s *CommentService) Previous(c *models.Comment) (*models.Comment, error) {
	var prev models.Comment
	err := s.db.Preload("Author").
		Where("submission_id = ? AND (created_at < ? OR (created_at = ? AND id < ?))",
			c.SubmissionID, c.CreatedAt, c.CreatedAt, c.ID).
		Order("created_at desc, id desc").
		First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}

// Next is the mirror of Previous: the earliest strictly-later sibling.
func (s *CommentService) Next(c *models.Comment) (*models.Comment, error) {
	var next models.Comment
	err := s.db.Preload("Author").
		Where("submission_id = ? AND (created_at > ? OR (created_at = ? AND id > ?))",
			c.SubmissionID, c.CreatedAt, c.CreatedAt, c.ID).
		Order("created_at asc, id asc").
		First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// Parent returns c's parent comment, or nil for a top-level comment.
func (s *CommentService) Parent(c *models.Comment) (*models.Comment, error) {
	if c.ParentID == nil {
		return nil, nil
	}
	return s.FindByID(*c.ParentID)
}

// Children lists the direct replies of a comment, oldest first.
func (s *CommentService) Children(commentID int) ([]models.Comment, error) {
	if commentID == 0 {
		return nil, &ValidationError{Message: "Comment id is required."}
	}
	var children []models.Comment
	err := s.db.Preload("Author").
		Where("parent_id = ?", commentID).
		Order("created_at asc, id asc").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}

// SubmissionOf resolves the submission a comment was made on.
func (s *CommentService) SubmissionOf(c *models.Comment) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.Preload("Author").First(&submission, c.SubmissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Associated submission not found."}
		}
		return nil, err
	}
	return &submission, nil
}

// Context assembles the permalink view for a comment: its submission's URL
// (null when the submission is gone) and the flat list of every comment under
// that submission.
func (s *CommentService) Context(commentID int) (*CommentContext, error) {
	comment, err := s.FindByID(commentID)
	if err != nil {
		return nil, err
	}
	comments, err := s.AllForSubmission(comment.SubmissionID)
	if err != nil {
		return nil, err
	}
	return &CommentContext{
		OnSubmission: s.submissionURL(comment.SubmissionID),
		Comments:     comments,
	}, nil
}

// AllForSubmission lists every comment of a submission, oldest first, as
// view models with computed vote counts.
func (s *CommentService) AllForSubmission(submissionID int) ([]CommentView, error) {
	if submissionID == 0 {
		return nil, &ValidationError{Message: "Submission id is required."}
	}
	var comments []models.Comment
	err := s.db.Preload("Author").
		Where("submission_id = ?", submissionID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, s.View(&comments[i]))
	}
	return views, nil
}

// All lists every comment in the store, oldest first.
func (s *CommentService) All() ([]CommentView, error) {
	var comments []models.Comment
	if err := s.db.Preload("Author").Order("created_at asc, id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		views = append(views, s.View(&comments[i]))
	}
	return views, nil
}

// VotesCount computes the voter-set size at read time.
func (s *CommentService) VotesCount(commentID int) int {
	var n int64
	s.db.Model(&models.Vote{}).Where("comment_id = ?", commentID).Count(&n)
	return int(n)
}

// View shapes a comment for the API contract.
func (s *CommentService) View(c *models.Comment) CommentView {
	return CommentView{
		ID:         c.ID,
		By:         authorName(c.Author),
		CreatedAt:  c.CreatedAt,
		VotesCount: s.VotesCount(c.ID),
		On:         s.submissionURL(c.SubmissionID),
		Text:       c.Text,
	}
}

func (s *CommentService) submissionURL(submissionID int) *string {
	var submission models.Submission
	if err := s.db.First(&submission, submissionID).Error; err != nil {
		return nil
	}
	if submission.URL == "" {
		return nil
	}
	url := submission.URL
	return &url
}
