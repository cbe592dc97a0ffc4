package models

import "time"

// Vote model - one row per (user, target). There is no vote direction and no
// stored counter: row existence is the single source of truth for "has this
// user voted", and counts are computed at read time. The composite unique
// indexes make the insert itself the at-most-once guard, so two concurrent
// upvotes cannot both slip past a membership check.
type Vote struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       int       `gorm:"uniqueIndex:uniq_vote_submission;uniqueIndex:uniq_vote_comment" json:"user_id"`
	SubmissionID *int      `gorm:"uniqueIndex:uniq_vote_submission" json:"submission_id,omitempty"`
	CommentID    *int      `gorm:"uniqueIndex:uniq_vote_comment" json:"comment_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserVote records one user's karma upvote of another, so unvoting can verify
// the voter actually voted before decrementing karma.
type UserVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	VoterID   int       `gorm:"uniqueIndex:uniq_user_vote" json:"voter_id"`
	TargetID  int       `gorm:"uniqueIndex:uniq_user_vote" json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}
