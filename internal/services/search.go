package services

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/hnclone/backend/internal/models"
)

// SearchService is a case-insensitive regex scan over the three collections.
// Deliberately not a search engine: Postgres evaluates the pattern row by row
// with ~* and no index helps it, which is fine at this scale.
type SearchService struct {
	db       *gorm.DB
	comments *CommentService
}

func NewSearchService(db *gorm.DB, comments *CommentService) *SearchService {
	return &SearchService{db: db, comments: comments}
}

// All scans users, submissions and comments and returns tagged results in
// that order.
func (s *SearchService) All(query string) ([]SearchResult, error) {
	pattern := strings.TrimSpace(query)
	if pattern == "" {
		return nil, &ValidationError{Message: `Query parameter "q" is required and must be a string.`}
	}
	// Reject patterns Postgres would choke on before they reach the scan.
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, &ValidationError{Message: "Invalid search pattern."}
	}

	results := []SearchResult{}

	var users []models.User
	if err := s.db.Where("username ~* ?", pattern).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		results = append(results, SearchResult{Type: "user", Data: UserToView(&users[i])})
	}

	var submissions []models.Submission
	err := s.db.Preload("Author").
		Where("title ~* ? OR text ~* ? OR url ~* ?", pattern, pattern, pattern).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	for i := range submissions {
		sub := &submissions[i]
		results = append(results, SearchResult{
			Type: "submission",
			Data: SubmissionView{
				ID:         sub.ID,
				Title:      sub.Title,
				VotesCount: s.votesOnSubmission(sub.ID),
				By:         authorName(sub.Author),
				ByID:       sub.AuthorID,
				CreatedAt:  sub.CreatedAt,
			},
		})
	}

	var comments []models.Comment
	if err := s.db.Preload("Author").Where("text ~* ?", pattern).Find(&comments).Error; err != nil {
		return nil, err
	}
	for i := range comments {
		results = append(results, SearchResult{Type: "comment", Data: s.comments.View(&comments[i])})
	}

	return results, nil
}

func (s *SearchService) votesOnSubmission(submissionID int) int {
	var n int64
	s.db.Model(&models.Vote{}).Where("submission_id = ?", submissionID).Count(&n)
	return int(n)
}
