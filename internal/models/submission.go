package models

import "time"

// Submission kinds. Stories are the default front-page type.
const (
	KindStory = "story"
	KindAsk   = "ask"
	KindShow  = "show"
	KindJob   = "job"
)

type Submission struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	URL       string    `json:"url,omitempty"`
	Text      string    `json:"text,omitempty"`
	Kind      string    `gorm:"default:story;index" json:"kind"`
	AuthorID  int       `gorm:"index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ValidKind reports whether kind is one of the accepted submission types.
func ValidKind(kind string) bool {
	switch kind {
	case KindStory, KindAsk, KindShow, KindJob:
		return true
	}
	return false
}

type CreateSubmissionRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
	Kind  string `json:"kind"`
}
