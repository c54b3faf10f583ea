package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

type fakeUsers struct {
	register func(ctx context.Context, username, password, name string) (*models.User, error)
	login    func(ctx context.Context, username, password string) (string, error)
	getByID  func(ctx context.Context, id string) (*models.User, error)
	list     func(ctx context.Context) ([]*models.User, error)
}

func (f *fakeUsers) Register(ctx context.Context, username, password, name string) (*models.User, error) {
	return f.register(ctx, username, password, name)
}
func (f *fakeUsers) Login(ctx context.Context, username, password string) (string, error) {
	return f.login(ctx, username, password)
}
func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getByID(ctx, id)
}
func (f *fakeUsers) List(ctx context.Context) ([]*models.User, error) { return f.list(ctx) }

type fakePosts struct {
	create   func(ctx context.Context, authorID, title, community, content string) (*models.Post, error)
	list     func(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	byAuthor func(ctx context.Context, authorID string, filter models.PostFilter) ([]*models.Post, error)
	get      func(ctx context.Context, id string) (*models.Post, error)
	update   func(ctx context.Context, caller auth.Identity, id string, patch models.PostPatch) (*models.Post, error)
	del      func(ctx context.Context, caller auth.Identity, id string) error
}

func (f *fakePosts) CreatePost(ctx context.Context, authorID, title, community, content string) (*models.Post, error) {
	return f.create(ctx, authorID, title, community, content)
}
func (f *fakePosts) ListPosts(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	return f.list(ctx, filter)
}
func (f *fakePosts) ListPostsByAuthor(ctx context.Context, authorID string, filter models.PostFilter) ([]*models.Post, error) {
	return f.byAuthor(ctx, authorID, filter)
}
func (f *fakePosts) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return f.get(ctx, id)
}
func (f *fakePosts) UpdatePost(ctx context.Context, caller auth.Identity, id string, patch models.PostPatch) (*models.Post, error) {
	return f.update(ctx, caller, id, patch)
}
func (f *fakePosts) DeletePost(ctx context.Context, caller auth.Identity, id string) error {
	return f.del(ctx, caller, id)
}

type fakeComments struct {
	create func(ctx context.Context, authorID, postID, content string) (*models.Comment, error)
	list   func(ctx context.Context) ([]*models.Comment, error)
	byPost func(ctx context.Context, postID string) ([]*models.Comment, error)
	get    func(ctx context.Context, id string) (*models.Comment, error)
	update func(ctx context.Context, caller auth.Identity, id string, patch models.CommentPatch) (*models.Comment, error)
	del    func(ctx context.Context, caller auth.Identity, id string) error
}

func (f *fakeComments) CreateComment(ctx context.Context, authorID, postID, content string) (*models.Comment, error) {
	return f.create(ctx, authorID, postID, content)
}
func (f *fakeComments) ListComments(ctx context.Context) ([]*models.Comment, error) {
	return f.list(ctx)
}
func (f *fakeComments) ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error) {
	return f.byPost(ctx, postID)
}
func (f *fakeComments) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return f.get(ctx, id)
}
func (f *fakeComments) UpdateComment(ctx context.Context, caller auth.Identity, id string, patch models.CommentPatch) (*models.Comment, error) {
	return f.update(ctx, caller, id, patch)
}
func (f *fakeComments) DeleteComment(ctx context.Context, caller auth.Identity, id string) error {
	return f.del(ctx, caller, id)
}

type fakeMedia struct {
	upload   func(ctx context.Context, caller auth.Identity, postID string) (*services.Upload, error)
	download func(ctx context.Context, postID string) (string, error)
}

func (f *fakeMedia) RequestUpload(ctx context.Context, caller auth.Identity, postID string) (*services.Upload, error) {
	return f.upload(ctx, caller, postID)
}
func (f *fakeMedia) DownloadURL(ctx context.Context, postID string) (string, error) {
	return f.download(ctx, postID)
}

var testCaller = auth.Identity{UserID: "aaaaaaaa-0000-0000-0000-000000000001", Username: "alice"}

type testEnv struct {
	srv      *Server
	tokens   *auth.TokenAuthority
	users    *fakeUsers
	posts    *fakePosts
	comments *fakeComments
	media    *fakeMedia
}

func unexpected(t *testing.T, name string) error {
	t.Helper()
	t.Errorf("unexpected call to %s", name)
	return common.ErrorInternal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokenAuthority([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenAuthority: %v", err)
	}

	env := &testEnv{
		tokens: tokens,
		users: &fakeUsers{
			register: func(context.Context, string, string, string) (*models.User, error) {
				return nil, unexpected(t, "Register")
			},
			login:   func(context.Context, string, string) (string, error) { return "", unexpected(t, "Login") },
			getByID: func(context.Context, string) (*models.User, error) { return nil, unexpected(t, "GetByID") },
			list:    func(context.Context) ([]*models.User, error) { return nil, unexpected(t, "List") },
		},
		posts:    &fakePosts{},
		comments: &fakeComments{},
		media:    &fakeMedia{},
	}
	env.srv = NewServer("127.0.0.1:0", nopLogger{}, Services{
		Users:    env.users,
		Posts:    env.posts,
		Comments: env.comments,
		Media:    env.media,
	}, tokens, time.Second)
	return env
}

func (e *testEnv) token(t *testing.T) string {
	t.Helper()
	tok, err := e.tokens.Issue(testCaller)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return tok
}

// do sends a request through the router. An empty token sends no
// Authorization header.
func (e *testEnv) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}
