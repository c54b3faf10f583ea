package services

import (
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/google/uuid"
)

func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required: %w", field, common.ErrBadRequest)
	}
	return nil
}

// present rejects a patch field that was sent but left empty.
func present(field string, value *string) error {
	if value != nil && *value == "" {
		return fmt.Errorf("%s must not be empty: %w", field, common.ErrBadRequest)
	}
	return nil
}

func validID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("malformed %s id %q: %w", kind, id, common.ErrBadRequest)
	}
	return nil
}

func checkOwner(caller auth.Identity, authorID string) error {
	if caller.UserID != authorID {
		return common.ErrForbidden
	}
	return nil
}
