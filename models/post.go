package models

import "time"

// Post statuses.
const (
	StatusPending = "pending"
	StatusPosted  = "posted"
	StatusFailed  = "failed"
)

// Post is one publish attempt and its outcome. TweetID is set exactly when
// Status is "posted".
type Post struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TweetID      *string    `gorm:"size:32;uniqueIndex" json:"tweet_id"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ContentHash  string     `gorm:"size:64;index;not null" json:"-"`
	ContentType  string     `gorm:"size:32;index;not null" json:"content_type"`
	Status       string     `gorm:"size:16;index;default:'pending'" json:"status"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	IsThread     bool       `json:"is_thread"`
	ThreadID     *string    `gorm:"size:36;index" json:"thread_id,omitempty"`
	Likes        int        `gorm:"default:0" json:"likes"`
	Reposts      int        `gorm:"default:0" json:"reposts"`
	Replies      int        `gorm:"default:0" json:"replies"`
	CreatedAt    time.Time  `json:"created_at"`
	PostedAt     *time.Time `gorm:"index" json:"posted_at,omitempty"`
}

// Engagement is the combined public-metric count for the post.
func (p Post) Engagement() int {
	return p.Likes + p.Reposts + p.Replies
}
