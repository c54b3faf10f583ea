package models

import "time"

type Post struct {
	ID        string
	Title     string
	Community string
	Content   string
	AuthorID  string
	// MediaKey is the object-storage key of the post's media, empty if none.
	MediaKey  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Populated on reads.
	Author   Author
	Comments []*Comment
}

// PostFilter narrows post listings. Empty fields do not filter.
type PostFilter struct {
	AuthorID  string
	Community string
	// Title is matched as a case-insensitive substring.
	Title string
}

// PostPatch carries the fields of a partial update; nil means unchanged.
type PostPatch struct {
	Title     *string
	Community *string
	Content   *string
}

// Apply merges the non-nil fields of patch into p.
func (patch PostPatch) Apply(p *Post) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Community != nil {
		p.Community = *patch.Community
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
}
