package auth

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the credential store: bcrypt with a random salt per call
// and a tunable work factor.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a hasher with the given bcrypt cost.
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("postboard/no-such-user"), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &PasswordHasher{cost: cost, dummy: dummy}, nil
}

// Hash returns an opaque hash of plaintext. Two calls never return the same
// value for the same input. Passwords longer than 72 bytes are rejected with
// common.ErrBadRequest.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("hash password: %w", common.ErrBadRequest)
		}
		return "", fmt.Errorf("hash password: %w", common.ErrorInternal)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// only a malformed hash yields an error.
func (h *PasswordHasher) Verify(hash, plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", common.ErrorInternal)
}

// VerifyDummy spends the same work as Verify against a hash nobody owns.
// Login calls it for unknown usernames so timing does not reveal existence.
func (h *PasswordHasher) VerifyDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
