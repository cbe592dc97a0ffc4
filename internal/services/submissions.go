package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/hnclone/backend/internal/models"
)

// SubmissionService owns submissions: creation and classification, the
// time-windowed and per-kind listings, vote bookkeeping, and the cascade that
// removes a submission together with its whole comment forest.
type SubmissionService struct {
	db       *gorm.DB
	comments *CommentService
}

func NewSubmissionService(db *gorm.DB, comments *CommentService) *SubmissionService {
	return &SubmissionService{db: db, comments: comments}
}

// Create inserts a new submission. Duplicate titles and URLs are permitted.
func (s *SubmissionService) Create(authorID int, title, url, text, kind string) (*models.Submission, error) {
	if authorID == 0 || title == "" {
		return nil, &ValidationError{Message: "Title is required."}
	}
	if kind == "" {
		kind = models.KindStory
	}
	if !models.ValidKind(kind) {
		return nil, &ValidationError{Message: "Unknown submission kind."}
	}

	submission := models.Submission{
		Title:    title,
		URL:      url,
		Text:     text,
		Kind:     kind,
		AuthorID: authorID,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		return nil, err
	}

	s.db.Preload("Author").First(&submission, submission.ID)
	return &submission, nil
}

func (s *SubmissionService) FindByID(id int) (*models.Submission, error) {
	if id == 0 {
		return nil, &ValidationError{Message: "Submission id required"}
	}
	var submission models.Submission
	if err := s.db.Preload("Author").First(&submission, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "Submission not found"}
		}
		return nil, err
	}
	return &submission, nil
}

// List returns every submission regardless of kind, newest first by default.
// The "past" view asks for oldest first instead.
func (s *SubmissionService) List(oldestFirst bool) ([]SubmissionListItem, error) {
	order := "created_at desc, id desc"
	if oldestFirst {
		order = "created_at asc, id asc"
	}
	var submissions []models.Submission
	if err := s.db.Preload("Author").Order(order).Find(&submissions).Error; err != nil {
		return nil, err
	}
	return s.listItems(submissions), nil
}

// ListByKind returns submissions of one kind, newest first by default.
func (s *SubmissionService) ListByKind(kind string, oldestFirst bool) ([]SubmissionListItem, error) {
	if !models.ValidKind(kind) {
		return nil, &ValidationError{Message: "Unknown submission kind."}
	}
	order := "created_at desc, id desc"
	if oldestFirst {
		order = "created_at asc, id asc"
	}
	var submissions []models.Submission
	err := s.db.Preload("Author").Where("kind = ?", kind).Order(order).Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return s.listItems(submissions), nil
}

// ListSince returns every submission created at or after t, newest first.
// Day/month/year windows are computed by the caller as now minus the delta.
func (s *SubmissionService) ListSince(t time.Time) ([]SubmissionListItem, error) {
	var submissions []models.Submission
	err := s.db.Preload("Author").
		Where("created_at >= ?", t).
		Order("created_at desc, id desc").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return s.listItems(submissions), nil
}

// Vote records userID's upvote; the unique index is the at-most-once guard.
func (s *SubmissionService) Vote(submissionID, userID int) error {
	if _, err := s.FindByID(submissionID); err != nil {
		return err
	}

	vote := models.Vote{UserID: userID, SubmissionID: &submissionID}
	if err := s.db.Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: "You have already voted"}
		}
		return err
	}
	return nil
}

// Unvote removes userID's vote, failing when no vote was recorded.
func (s *SubmissionService) Unvote(submissionID, userID int) error {
	if _, err := s.FindByID(submissionID); err != nil {
		return err
	}

	res := s.db.Where("submission_id = ? AND user_id = ?", submissionID, userID).Delete(&models.Vote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ValidationError{Message: "You have not voted for this submission"}
	}
	return nil
}

// DeleteCascade removes a submission and every comment under it. Each root
// comment goes through the tree engine's post-order delete, so the invariant
// "no reply outlives its parent" holds throughout; a leftover comment (for
// example a reply racing the cascade) is swept afterwards and logged. The
// ownership check belongs to the caller.
func (s *SubmissionService) DeleteCascade(submissionID int) error {
	submission, err := s.FindByID(submissionID)
	if err != nil {
		return err
	}

	var roots []models.Comment
	err = s.db.Where("submission_id = ? AND parent_id IS NULL", submissionID).
		Order("created_at asc, id asc").
		Find(&roots).Error
	if err != nil {
		return err
	}
	for i := range roots {
		if err := s.comments.DeleteWithChildren(roots[i].ID); err != nil {
			var notFound *NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
	}

	// Every comment denormalizes its submission, so anything left here lost
	// the race against the cascade.
	res := s.db.Where("submission_id = ?", submissionID).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("cascade delete of submission %d swept %d stray comments", submissionID, res.RowsAffected)
	}

	if err := s.db.Where("submission_id = ?", submissionID).Delete(&models.Vote{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("submission_id = ?", submissionID).Delete(&models.Favorite{}).Error; err != nil {
		return err
	}
	return s.db.Delete(submission).Error
}

// VotesCount and CommentsCount are computed per read so there is no stored
// counter to drift.
func (s *SubmissionService) VotesCount(submissionID int) int {
	var n int64
	s.db.Model(&models.Vote{}).Where("submission_id = ?", submissionID).Count(&n)
	return int(n)
}

func (s *SubmissionService) CommentsCount(submissionID int) int {
	var n int64
	s.db.Model(&models.Comment{}).Where("submission_id = ?", submissionID).Count(&n)
	return int(n)
}

// View shapes a submission for the API contract.
func (s *SubmissionService) View(sub *models.Submission) SubmissionView {
	return SubmissionView{
		ID:         sub.ID,
		Title:      sub.Title,
		VotesCount: s.VotesCount(sub.ID),
		By:         authorName(sub.Author),
		ByID:       sub.AuthorID,
		CreatedAt:  sub.CreatedAt,
	}
}

func (s *SubmissionService) listItems(submissions []models.Submission) []SubmissionListItem {
	items := make([]SubmissionListItem, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		items = append(items, SubmissionListItem{
			SubmissionView: s.View(sub),
			URL:            sub.URL,
			Text:           sub.Text,
			Kind:           sub.Kind,
			CommentsCount:  s.CommentsCount(sub.ID),
		})
	}
	return items
}
