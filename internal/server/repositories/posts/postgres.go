// Package posts implements PostgreSQL storage for posts. Reads join the
// author's public fields; comments are loaded by the comments repository.
package posts

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

const selectPosts = `SELECT p.id, p.title, p.community, p.content, p.author_id, p.media_key,
        p.created_at, p.updated_at, u.id, u.name, u.username
   FROM posts p
   JOIN users u ON u.id = p.author_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) error {

	query :=
		`INSERT INTO posts (id, title, community, content, author_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Title, post.Community, post.Content, post.AuthorID).Scan(&post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return wrapErr(err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := selectPosts + `
  WHERE p.id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrapErr(err)
	}

	return post, nil
}

// List returns the posts matching every non-empty field of filter, most
// recently updated first.
func (r *PostgresRepository) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.AuthorID != "" {
		add("p.author_id = $%d", filter.AuthorID)
	}
	if filter.Community != "" {
		add("p.community = $%d", filter.Community)
	}
	if filter.Title != "" {
		add("p.title ILIKE $%d", "%"+EscapeLike(filter.Title)+"%")
	}

	query := selectPosts
	if len(conds) > 0 {
		query += "\n  WHERE " + strings.Join(conds, " AND ")
	}
	query += "\n  ORDER BY p.updated_at DESC, p.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}

	return result, nil
}

// Update stores title, community and content and refreshes updated_at.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	query :=
		`UPDATE posts SET title = $2, community = $3, content = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, post.ID, post.Title, post.Community, post.Content).Scan(&post.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return wrapErr(err)
	}

	return nil
}

// SetMediaKey records the post's media object and refreshes updated_at.
func (r *PostgresRepository) SetMediaKey(ctx context.Context, id string, key string) error {
	query :=
		`UPDATE posts SET media_key = $2, updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return wrapErr(err)
	}
	return expectOneRow(res)
}

// Delete removes the post row only. Callers delete the comments first, in the
// same transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapErr(err)
	}
	return expectOneRow(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{Comments: []*models.Comment{}}
	err := s.Scan(&p.ID, &p.Title, &p.Community, &p.Content, &p.AuthorID, &p.MediaKey,
		&p.CreatedAt, &p.UpdatedAt, &p.Author.ID, &p.Author.Name, &p.Author.UserName)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func wrapErr(err error) error {
	if dbx.IsInvalidTextRepresentation(err) {
		return fmt.Errorf("malformed post id: %w", common.ErrBadRequest)
	}
	return fmt.Errorf("db error: %w", err)
}

// EscapeLike quotes the LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
