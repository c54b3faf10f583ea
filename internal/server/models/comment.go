package models

import "time"

type Comment struct {
	ID        string
	Content   string
	AuthorID  string
	PostID    string
	CreatedAt time.Time
	UpdatedAt time.Time

	Author Author
}

// CommentPatch carries the fields of a partial update; nil means unchanged.
type CommentPatch struct {
	Content *string
}

// Apply merges the non-nil fields of patch into c.
func (patch CommentPatch) Apply(c *Comment) {
	if patch.Content != nil {
		c.Content = *patch.Content
	}
}
