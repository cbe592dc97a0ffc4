package services

import (
	"time"

	"github.com/hnclone/backend/internal/models"
)

// View models returned by read operations. Field names are part of the JSON
// contract the SPA consumes, so they stay camelCase and nullable exactly as
// the clients expect.

type CommentView struct {
	ID         int       `json:"id"`
	By         *string   `json:"by"`
	CreatedAt  time.Time `json:"createdAt"`
	VotesCount int       `json:"votesCount"`
	On         *string   `json:"on"` // URL of the owning submission, null if it was deleted
	Text       string    `json:"text"`
}

type SubmissionView struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	VotesCount int       `json:"votesCount"`
	By         *string   `json:"by"`
	ByID       int       `json:"byId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SubmissionListItem enriches the plain view for list pages. Both counts are
// computed per read, never stored.
type SubmissionListItem struct {
	SubmissionView
	URL           string `json:"url,omitempty"`
	Text          string `json:"text,omitempty"`
	Kind          string `json:"kind"`
	CommentsCount int    `json:"commentsCount"`
}

type UserView struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	Karma     int       `json:"karma"`
}

// CommentContext is the "permalink with full thread" payload: the submission
// URL plus every comment under that submission as a flat list. The client
// rebuilds the hierarchy from the parent references.
type CommentContext struct {
	OnSubmission *string       `json:"onSubmission"`
	Comments     []CommentView `json:"comments"`
}

type SearchResult struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func UserToView(u *models.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		Karma:     u.Karma,
	}
}

// authorName returns the username for a preloaded author, or nil when the
// author row is gone or was never loaded.
func authorName(author models.User) *string {
	if author.Username == "" {
		return nil
	}
	name := author.Username
	return &name
}
