package services

import (
	"time"

	"github.com/hnclone/backend/internal/models"
)

// OwnerProfile is the full public profile of a submitter: who they are plus
// enriched listings of everything they wrote and favorited.
type OwnerProfile struct {
	Username            string            `json:"username"`
	CreatedAt           time.Time         `json:"createdAt"`
	Karma               int               `json:"karma"`
	About               string            `json:"about"`
	Submissions         []OwnerSubmission `json:"submissions"`
	Comments            []OwnerComment    `json:"comments"`
	FavoriteSubmissions []OwnerSubmission `json:"favoriteSubmissions"`
	FavoriteComments    []OwnerComment    `json:"favoriteComments"`
}

type OwnerSubmission struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	VotesCount   int       `json:"votesCount"`
	CommentCount int       `json:"commentCount"`
	By           string    `json:"by"`
}

type OwnerCommentRef struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

type OwnerSubmissionRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

type OwnerComment struct {
	ID           int                 `json:"id"`
	Text         string              `json:"text"`
	CreatedAt    time.Time           `json:"createdAt"`
	Parent       *OwnerCommentRef    `json:"parent"`
	OnSubmission *OwnerSubmissionRef `json:"onSubmission"`
	By           string              `json:"by"`
}

// Owner resolves the author of a submission and assembles their profile.
func (s *SubmissionService) Owner(submissionID int) (*OwnerProfile, error) {
	submission, err := s.FindByID(submissionID)
	if err != nil {
		return nil, err
	}
	return s.ProfileOf(submission.AuthorID)
}

// ProfileOf assembles the public profile of one user.
func (s *SubmissionService) ProfileOf(userID int) (*OwnerProfile, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, &NotFoundError{Message: "User not found"}
	}

	authored, err := s.ownedSubmissions(user.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.ownedComments(user.ID)
	if err != nil {
		return nil, err
	}
	favSubmissions, err := s.favoriteSubmissions(user.ID)
	if err != nil {
		return nil, err
	}
	favComments, err := s.favoriteComments(user.ID)
	if err != nil {
		return nil, err
	}

	return &OwnerProfile{
		Username:            user.Username,
		CreatedAt:           user.CreatedAt,
		Karma:               user.Karma,
		About:               user.About,
		Submissions:         authored,
		Comments:            comments,
		FavoriteSubmissions: favSubmissions,
		FavoriteComments:    favComments,
	}, nil
}

func (s *SubmissionService) ownedSubmissions(userID int) ([]OwnerSubmission, error) {
	var submissions []models.Submission
	err := s.db.Preload("Author").
		Where("author_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return s.ownerSubmissionViews(submissions), nil
}

func (s *SubmissionService) favoriteSubmissions(userID int) ([]OwnerSubmission, error) {
	var submissions []models.Submission
	err := s.db.Preload("Author").
		Joins("JOIN favorites ON favorites.submission_id = submissions.id").
		Where("favorites.user_id = ?", userID).
		Order("submissions.created_at desc, submissions.id desc").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return s.ownerSubmissionViews(submissions), nil
}

func (s *SubmissionService) ownedComments(userID int) ([]OwnerComment, error) {
	var comments []models.Comment
	err := s.db.Preload("Author").
		Where("author_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return s.ownerCommentViews(comments), nil
}

func (s *SubmissionService) favoriteComments(userID int) ([]OwnerComment, error) {
	var comments []models.Comment
	err := s.db.Preload("Author").
		Joins("JOIN favorites ON favorites.comment_id = comments.id").
		Where("favorites.user_id = ?", userID).
		Order("comments.created_at desc, comments.id desc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return s.ownerCommentViews(comments), nil
}

func (s *SubmissionService) ownerSubmissionViews(submissions []models.Submission) []OwnerSubmission {
	views := make([]OwnerSubmission, 0, len(submissions))
	for i := range submissions {
		sub := &submissions[i]
		by := sub.Author.Username
		if by == "" {
			by = "Unknown"
		}
		views = append(views, OwnerSubmission{
			ID:           sub.ID,
			Title:        sub.Title,
			CreatedAt:    sub.CreatedAt,
			VotesCount:   s.VotesCount(sub.ID),
			CommentCount: s.CommentsCount(sub.ID),
			By:           by,
		})
	}
	return views
}

func (s *SubmissionService) ownerCommentViews(comments []models.Comment) []OwnerComment {
	views := make([]OwnerComment, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		by := c.Author.Username
		if by == "" {
			by = "Unknown"
		}

		var parent *OwnerCommentRef
		if c.ParentID != nil {
			var p models.Comment
			if err := s.db.First(&p, *c.ParentID).Error; err == nil {
				parent = &OwnerCommentRef{ID: p.ID, Text: p.Text}
			}
		}

		var on *OwnerSubmissionRef
		var sub models.Submission
		if err := s.db.First(&sub, c.SubmissionID).Error; err == nil {
			on = &OwnerSubmissionRef{ID: sub.ID, Title: sub.Title}
		}

		views = append(views, OwnerComment{
			ID:           c.ID,
			Text:         c.Text,
			CreatedAt:    c.CreatedAt,
			Parent:       parent,
			OnSubmission: on,
			By:           by,
		})
	}
	return views
}
