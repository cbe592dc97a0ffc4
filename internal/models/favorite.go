package models

import "time"

// Favorite marks a submission or a comment as saved by a user. Exactly one of
// SubmissionID/CommentID is set; the unique indexes make favoriting idempotent
// at the store level.
type Favorite struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       int       `gorm:"uniqueIndex:uniq_fav_submission;uniqueIndex:uniq_fav_comment" json:"user_id"`
	SubmissionID *int      `gorm:"uniqueIndex:uniq_fav_submission" json:"submission_id,omitempty"`
	CommentID    *int      `gorm:"uniqueIndex:uniq_fav_comment" json:"comment_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
