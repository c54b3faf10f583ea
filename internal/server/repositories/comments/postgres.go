// Package comments implements PostgreSQL storage for comments.
package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/server/models"
)

const selectComments = `SELECT c.id, c.content, c.author_id, c.post_id, c.created_at, c.updated_at,
        u.id, u.name, u.username
   FROM comments c
   JOIN users u ON u.id = c.author_id`

const orderComments = `
  ORDER BY c.updated_at DESC, c.id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) error {

	query :=
		`INSERT INTO comments (id, content, author_id, post_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.Content, comment.AuthorID, comment.PostID).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return wrapErr(err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := selectComments + `
  WHERE c.id = $1`

	comment, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapErr(err)
	}

	return comment, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Comment, error) {
	return r.query(ctx, selectComments+orderComments)
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	query := selectComments + `
  WHERE c.post_id = $1` + orderComments

	return r.query(ctx, query, postID)
}

// ListByPosts loads the comments of several posts in one round trip. The
// caller groups them by PostID.
func (r *PostgresRepository) ListByPosts(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	if len(postIDs) == 0 {
		return []*models.Comment{}, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := selectComments + `
  WHERE c.post_id IN (` + strings.Join(placeholders, ", ") + `)` + orderComments

	return r.query(ctx, query, args...)
}

func (r *PostgresRepository) Update(ctx context.Context, comment *models.Comment) error {
	query :=
		`UPDATE comments SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Content).Scan(&comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return wrapErr(err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM comments WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteByPost removes every comment of the post and reports how many went.
func (r *PostgresRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	query := `DELETE FROM comments WHERE post_id = $1`

	res, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return 0, wrapErr(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(s scanner) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.Scan(&c.ID, &c.Content, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.UpdatedAt,
		&c.Author.ID, &c.Author.Name, &c.Author.UserName)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func wrapErr(err error) error {
	if dbx.IsInvalidTextRepresentation(err) {
		return fmt.Errorf("malformed id: %w", common.ErrBadRequest)
	}
	return fmt.Errorf("db error: %w", err)
}
