package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/comments"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/users"
)

// memStore backs the fake repositories. Every write advances the clock by a
// second so orderings are deterministic.
type memStore struct {
	mu       sync.Mutex
	clock    time.Time
	users    map[string]*models.User
	posts    map[string]*models.Post
	comments map[string]*models.Comment

	commentCreates int
	postDeleteErr  error
}

func newMemStore() *memStore {
	return &memStore{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    map[string]*models.User{},
		posts:    map[string]*models.Post{},
		comments: map[string]*models.Comment{},
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memStore) author(id string) models.Author {
	if u, ok := s.users[id]; ok {
		return u.Author()
	}
	return models.Author{}
}

type fakeManager struct {
	store *memStore
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository             { return &fakeUsersRepo{m.store} }
func (m *fakeManager) Posts(dbx.DBTX) posts.Repository             { return &fakePostsRepo{m.store} }
func (m *fakeManager) Comments(dbx.DBTX) comments.Repository       { return &fakeCommentsRepo{m.store} }

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.UserName == u.UserName {
			return nil, common.ErrConflict
		}
	}
	now := r.s.tick()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.s.users[u.ID] = &cp
	return u, nil
}

func (r *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.UserName == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.User{}
	for _, u := range r.s.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakePostsRepo struct{ s *memStore }

func (r *fakePostsRepo) Create(ctx context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.tick()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	cp.Comments = nil
	r.s.posts[p.ID] = &cp
	return nil
}

func (r *fakePostsRepo) read(p *models.Post) *models.Post {
	cp := *p
	cp.Author = r.s.author(p.AuthorID)
	cp.Comments = []*models.Comment{}
	return &cp
}

func (r *fakePostsRepo) GetByID(ctx context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.read(p), nil
}

func (r *fakePostsRepo) List(ctx context.Context, f models.PostFilter) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Post{}
	for _, p := range r.s.posts {
		if f.AuthorID != "" && p.AuthorID != f.AuthorID {
			continue
		}
		if f.Community != "" && p.Community != f.Community {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Title)) {
			continue
		}
		out = append(out, r.read(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakePostsRepo) Update(ctx context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.posts[p.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Title, stored.Community, stored.Content = p.Title, p.Community, p.Content
	stored.UpdatedAt = r.s.tick()
	p.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakePostsRepo) SetMediaKey(ctx context.Context, id, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.posts[id]
	if !ok {
		return common.ErrorNotFound
	}
	stored.MediaKey = key
	stored.UpdatedAt = r.s.tick()
	return nil
}

func (r *fakePostsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.postDeleteErr != nil {
		return r.s.postDeleteErr
	}
	if _, ok := r.s.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.posts, id)
	return nil
}

type fakeCommentsRepo struct{ s *memStore }

func (r *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.commentCreates++
	now := r.s.tick()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	r.s.comments[c.ID] = &cp
	return nil
}

func (r *fakeCommentsRepo) read(c *models.Comment) *models.Comment {
	cp := *c
	cp.Author = r.s.author(c.AuthorID)
	return &cp
}

func (r *fakeCommentsRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.read(c), nil
}

func (r *fakeCommentsRepo) filter(keep func(*models.Comment) bool) []*models.Comment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*models.Comment{}
	for _, c := range r.s.comments {
		if keep(c) {
			out = append(out, r.read(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (r *fakeCommentsRepo) List(ctx context.Context) ([]*models.Comment, error) {
	return r.filter(func(*models.Comment) bool { return true }), nil
}

func (r *fakeCommentsRepo) ListByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return r.filter(func(c *models.Comment) bool { return c.PostID == postID }), nil
}

func (r *fakeCommentsRepo) ListByPosts(ctx context.Context, postIDs []string) ([]*models.Comment, error) {
	set := map[string]bool{}
	for _, id := range postIDs {
		set[id] = true
	}
	return r.filter(func(c *models.Comment) bool { return set[c.PostID] }), nil
}

func (r *fakeCommentsRepo) Update(ctx context.Context, c *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.comments[c.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Content = c.Content
	stored.UpdatedAt = r.s.tick()
	c.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *fakeCommentsRepo) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, c := range r.s.comments {
		if c.PostID == postID {
			delete(r.s.comments, id)
			n++
		}
	}
	return n, nil
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// seedUser stores a user directly, bypassing hashing.
func (s *memStore) seedUser(id, username, name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	u := &models.User{ID: id, UserName: username, Name: name, CreatedAt: now, UpdatedAt: now}
	s.users[id] = u
	return u
}
