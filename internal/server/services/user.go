// Package services contains server-side business logic. This file implements
// UserService, the identity directory: registration, credential checks,
// token issuance and user lookups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserLookup resolves a user by id. Content services use it to resolve
// authors.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenAuthority
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenAuthority) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register creates a new user. A taken username surfaces as
// common.ErrConflict from the unique constraint.
func (s *UserService) Register(ctx context.Context, username, password, name string) (*models.User, error) {
	if err := required("username", username); err != nil {
		return nil, err
	}
	if err := required("password", password); err != nil {
		return nil, err
	}
	if err := required("name", name); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{ID: uuid.NewString(), UserName: username, PasswordHash: hash, Name: name}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate checks the credentials. An unknown username and a wrong
// password both yield common.ErrorUnauthorized and cost one bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (auth.Identity, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyDummy(password)
			return auth.Identity{}, common.ErrorUnauthorized
		}
		return auth.Identity{}, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return auth.Identity{}, err
	}
	if !ok {
		return auth.Identity{}, common.ErrorUnauthorized
	}

	return auth.Identity{UserID: user.ID, Username: user.UserName}, nil
}

// Login authenticates and returns a signed access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	if err := errors.Join(required("username", username), required("password", password)); err != nil {
		return "", err
	}

	id, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// GetByID returns the user or common.ErrorNotFound. Ids that are not UUIDs
// cannot exist and are reported as not found.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUsername(ctx, username)
}

// List returns every user in registration order.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}
