package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PostService owns posts and the cascade to their comments.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       UserLookup
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, users UserLookup) *PostService {
	return &PostService{db: db, repomanager: m, users: users}
}

// CreatePost stores a post by authorID. An author that does not resolve is a
// bad request.
func (s *PostService) CreatePost(ctx context.Context, authorID, title, community, content string) (*models.Post, error) {
	if err := required("title", title); err != nil {
		return nil, err
	}
	if err := required("community", community); err != nil {
		return nil, err
	}
	if err := required("content", content); err != nil {
		return nil, err
	}

	author, err := resolveAuthor(ctx, s.users, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        uuid.NewString(),
		Title:     title,
		Community: community,
		Content:   content,
		AuthorID:  author.ID,
		Author:    author.Author(),
		Comments:  []*models.Comment{},
	}
	if err := s.repomanager.Posts(s.db).Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return post, nil
}

// ListPosts returns the posts matching filter, newest update first, each
// with its comments.
func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	posts, err := s.repomanager.Posts(s.db).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByAuthor is ListPosts restricted to posts by authorID.
func (s *PostService) ListPostsByAuthor(ctx context.Context, authorID string, filter models.PostFilter) ([]*models.Post, error) {
	filter.AuthorID = authorID
	return s.ListPosts(ctx, filter)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	if err := validID("post", id); err != nil {
		return nil, err
	}

	post, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.repomanager.Comments(s.db).ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// UpdatePost merges patch into the caller's post.
func (s *PostService) UpdatePost(ctx context.Context, caller auth.Identity, id string, patch models.PostPatch) (*models.Post, error) {
	if err := validID("post", id); err != nil {
		return nil, err
	}
	if err := errors.Join(
		present("title", patch.Title),
		present("community", patch.Community),
		present("content", patch.Content),
	); err != nil {
		return nil, err
	}

	repo := s.repomanager.Posts(s.db)
	post, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(caller, post.AuthorID); err != nil {
		return nil, err
	}

	patch.Apply(post)
	if err := repo.Update(ctx, post); err != nil {
		return nil, err
	}

	comments, err := s.repomanager.Comments(s.db).ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

// DeletePost removes the caller's post and every comment on it in one
// transaction; either all of them go or none does.
func (s *PostService) DeletePost(ctx context.Context, caller auth.Identity, id string) error {
	if err := validID("post", id); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		postRepo := s.repomanager.Posts(tx)

		post, err := postRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(caller, post.AuthorID); err != nil {
			return err
		}

		if _, err := s.repomanager.Comments(tx).DeleteByPost(ctx, id); err != nil {
			return fmt.Errorf("error deleting comments of post %s: %w", id, err)
		}
		return postRepo.Delete(ctx, id)
	})
}

func (s *PostService) attachComments(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	comments, err := s.repomanager.Comments(s.db).ListByPosts(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range comments {
		if p, ok := byID[c.PostID]; ok {
			p.Comments = append(p.Comments, c)
		}
	}
	return nil
}

func resolveAuthor(ctx context.Context, users UserLookup, id string) (*models.User, error) {
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("author not found: %w", common.ErrBadRequest)
		}
		return nil, err
	}
	return u, nil
}
