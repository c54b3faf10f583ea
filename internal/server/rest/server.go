// Package rest exposes the postboard services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/services"
	"github.com/gorilla/mux"
)

type UserService interface {
	Register(ctx context.Context, username, password, name string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type PostService interface {
	CreatePost(ctx context.Context, authorID, title, community, content string) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter) ([]*models.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string, filter models.PostFilter) ([]*models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, caller auth.Identity, id string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, caller auth.Identity, id string) error
}

type CommentService interface {
	CreateComment(ctx context.Context, authorID, postID, content string) (*models.Comment, error)
	ListComments(ctx context.Context) ([]*models.Comment, error)
	ListCommentsByPost(ctx context.Context, postID string) ([]*models.Comment, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, caller auth.Identity, id string, patch models.CommentPatch) (*models.Comment, error)
	DeleteComment(ctx context.Context, caller auth.Identity, id string) error
}

type MediaService interface {
	RequestUpload(ctx context.Context, caller auth.Identity, postID string) (*services.Upload, error)
	DownloadURL(ctx context.Context, postID string) (string, error)
}

// TokenVerifier resolves a bearer token to the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Services groups the business services the HTTP layer dispatches to.
type Services struct {
	Users    UserService
	Posts    PostService
	Comments CommentService
	Media    MediaService
}

type Server struct {
	address         string
	logger          logging.Logger
	svc             Services
	tokens          TokenVerifier
	shutdownTimeout time.Duration
	router          *mux.Router
}

func NewServer(a string, l logging.Logger, svc Services, tokens TokenVerifier, shutdownTimeout time.Duration) *Server {
	s := &Server{
		address:         a,
		logger:          l.With("module", "rest_server"),
		svc:             svc,
		tokens:          tokens,
		shutdownTimeout: shutdownTimeout,
	}
	s.router = s.routes()
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/auth/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/auth/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/auth/profile", s.protected(s.handleProfile)).Methods("GET")

	r.HandleFunc("/users", s.handleRegister).Methods("POST")
	r.HandleFunc("/users", s.protected(s.handleListUsers)).Methods("GET")
	r.HandleFunc("/users/{id}", s.protected(s.handleGetUser)).Methods("GET")

	r.HandleFunc("/posts", s.protected(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/posts", s.handleListPosts).Methods("GET")
	r.HandleFunc("/posts/my", s.protected(s.handleMyPosts)).Methods("GET")
	r.HandleFunc("/posts/{id}", s.handleGetPost).Methods("GET")
	r.HandleFunc("/posts/{id}", s.protected(s.handleUpdatePost)).Methods("PATCH")
	r.HandleFunc("/posts/{id}", s.protected(s.handleDeletePost)).Methods("DELETE")
	r.HandleFunc("/posts/{id}/media", s.protected(s.handleRequestUpload)).Methods("POST")
	r.HandleFunc("/posts/{id}/media", s.handleDownloadURL).Methods("GET")

	r.HandleFunc("/comments", s.handleListComments).Methods("GET")
	r.HandleFunc("/comments/post/{postId}", s.handleListCommentsByPost).Methods("GET")
	r.HandleFunc("/comments/{postId}", s.protected(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/comments/{id}", s.handleGetComment).Methods("GET")
	r.HandleFunc("/comments/{id}", s.protected(s.handleUpdateComment)).Methods("PATCH")
	r.HandleFunc("/comments/{id}", s.protected(s.handleDeleteComment)).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}
