package rest

import (
	"time"

	"github.com/dmitrijs2005/postboard/internal/server/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authorResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type commentResponse struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	PostID    string         `json:"postId"`
	Author    authorResponse `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type postResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Community string            `json:"community"`
	Content   string            `json:"content"`
	MediaKey  string            `json:"mediaKey,omitempty"`
	Author    authorResponse    `json:"author"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type createPostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Community string `json:"community"`
}

// updatePostRequest fields are nil when absent from the body.
type updatePostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Community *string `json:"community"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

type updateCommentRequest struct {
	Content *string `json:"content"`
}

type uploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type downloadResponse struct {
	DownloadURL string `json:"download_url"`
}

func toUser(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.UserName, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func toUsers(us []*models.User) []userResponse {
	out := make([]userResponse, 0, len(us))
	for _, u := range us {
		out = append(out, toUser(u))
	}
	return out
}

func toAuthor(a models.Author) authorResponse {
	return authorResponse{ID: a.ID, Name: a.Name, Username: a.UserName}
}

func toComment(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		Author:    toAuthor(c.Author),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toComments(cs []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toComment(c))
	}
	return out
}

func toPost(p *models.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Community: p.Community,
		Content:   p.Content,
		MediaKey:  p.MediaKey,
		Author:    toAuthor(p.Author),
		Comments:  toComments(p.Comments),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(ps []*models.Post) []postResponse {
	out := make([]postResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPost(p))
	}
	return out
}
