// Package auth holds the identity primitives of the server: bcrypt password
// hashing (the credential store) and HS256 access tokens (the token authority).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the resolved subject of a valid access token.
type Identity struct {
	UserID   string
	Username string
}

// Claims is the access token payload: the standard registered claims (sub
// carries the user id) plus the username.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// TokenAuthority issues and verifies stateless access tokens.
//
// The secret is fixed at construction and never changes afterwards; there is
// no revocation, so a token stays valid until it expires.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenAuthority builds a TokenAuthority signing with secret and issuing
// tokens valid for ttl.
func NewTokenAuthority(secret []byte, ttl time.Duration) (*TokenAuthority, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %v", ttl)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenAuthority{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for id, expiring ttl from now.
func (a *TokenAuthority) Issue(id Identity) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
		Username: id.Username,
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Every failure is reported
// as common.ErrInvalidToken, whatever the cause.
func (a *TokenAuthority) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Username: claims.Username}, nil
}
