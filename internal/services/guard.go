package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// ErrForbidden is returned when a non-admin principal calls an admin-only
// operation.
var ErrForbidden = errors.New("admin privileges required")

// AccountGetter reads a single account by id.
type AccountGetter interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AccountDB, error)
}

// requireAdmin is the single authorization guard for admin-only
// operations. The role is read from the store on every call rather than
// trusted from the token.
func requireAdmin(ctx context.Context, reader AccountGetter, userID uuid.UUID) error {
	account, err := reader.GetByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load reviewer account", "userID", userID, "err", err)
		return err
	}
	if account == nil {
		return models.ErrAccountNotFound
	}
	if !account.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
