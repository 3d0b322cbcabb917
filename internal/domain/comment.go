package domain

import "time"

// Comment is the canonical shape of a post comment.
type Comment struct {
	ID           int64         `json:"id"`
	PostID       int64         `json:"post_id"`
	Text         string        `json:"text"`
	CreatedAt    time.Time     `json:"created_at"`
	CreatedAtRaw string        `json:"created_at_raw,omitempty"`
	Author       CommentAuthor `json:"author"`
}

// HasPost reports whether the comment could be tied back to a post. A
// comment whose post id did not parse is orphaned, not invalid; callers
// must tolerate it.
func (c *Comment) HasPost() bool {
	return c.PostID != 0
}

// CommentAuthor is the author snippet attached to a comment.
type CommentAuthor struct {
	ProfileID int64  `json:"profile_id,omitempty"`
	Nick      string `json:"nick"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CommentCreate is the outbound payload for posting a comment.
type CommentCreate struct {
	PostID int64  `json:"publicacion_id" validate:"required,gt=0"`
	Text   string `json:"texto" validate:"required,min=1,max=1000"`
}
