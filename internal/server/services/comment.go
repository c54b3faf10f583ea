package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       UserLookup
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, users UserLookup) *CommentService {
	return &CommentService{db: db, repomanager: m, users: users}
}

// CreateComment attaches a comment to postID. The post must exist
// (common.ErrorNotFound otherwise) and the author must resolve
// (common.ErrBadRequest otherwise); nothing is stored on failure.
func (s *CommentService) CreateComment(ctx context.Context, authorID, postID, content string) (*models.Comment, error) {
	if err := required("content", content); err != nil {
		return nil, err
	}
	if err := validID("post", postID); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Posts(s.db).GetByID(ctx, postID); err != nil {
		return nil, err
	}

	author, err := resolveAuthor(ctx, s.users, authorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:       uuid.NewString(),
		Content:  content,
		AuthorID: author.ID,
		PostID:   postID,
		Author:   author.Author(),
	}
	if err := s.repomanager.Comments(s.db).Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context) ([]*models.Comment, error) {
	return s.repomanager.Comments(s.db).List(ctx)
}

// ListCommentsByPost returns the comments of postID; a post without comments
// yields an empty slice.
func (s *CommentService) ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	if err := validID("post", postID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).ListByPost(ctx, postID)
}

func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	if err := validID("comment", id); err != nil {
		return nil, err
	}
	return s.repomanager.Comments(s.db).GetByID(ctx, id)
}

func (s *CommentService) UpdateComment(ctx context.Context, caller auth.Identity, id string, patch models.CommentPatch) (*models.Comment, error) {
	if err := validID("comment", id); err != nil {
		return nil, err
	}
	if err := present("content", patch.Content); err != nil {
		return nil, err
	}

	repo := s.repomanager.Comments(s.db)
	comment, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(caller, comment.AuthorID); err != nil {
		return nil, err
	}

	patch.Apply(comment)
	if err := repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, caller auth.Identity, id string) error {
	if err := validID("comment", id); err != nil {
		return err
	}

	repo := s.repomanager.Comments(s.db)
	comment, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := checkOwner(caller, comment.AuthorID); err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}
