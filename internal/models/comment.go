package models

import "time"

// Comment is one node of a submission's comment forest. Every comment keeps a
// direct reference to its submission, replies included, so traversal never has
// to walk up through parents to find out where a comment lives. A nil ParentID
// marks a top-level comment.
type Comment struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Text         string    `gorm:"not null" json:"text"`
	AuthorID     int       `gorm:"index" json:"author_id"`
	Author       User      `gorm:"foreignKey:AuthorID" json:"author"`
	SubmissionID int       `gorm:"index" json:"submission_id"`
	ParentID     *int      `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}
