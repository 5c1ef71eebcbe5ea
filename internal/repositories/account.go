package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// AccountReadRepository handles account read operations.
type AccountReadRepository struct {
	db *sqlx.DB
}

func NewAccountReadRepository(db *sqlx.DB) *AccountReadRepository {
	return &AccountReadRepository{db: db}
}

// GetByUserID returns the account for a user id, or nil when absent.
func (r *AccountReadRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AccountDB, error) {
	const query = `
		SELECT user_id, username, email, full_name, password_hash, role, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
	`

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetByUsernameOrEmail returns the first account matching the non-nil
// arguments, or nil when absent.
func (r *AccountReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.AccountDB, error) {
	const query = `
		SELECT user_id, username, email, full_name, password_hash, role, balance, created_at, updated_at
		FROM accounts
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, username, email)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// List returns all accounts, newest-first.
func (r *AccountReadRepository) List(ctx context.Context) ([]models.AccountDB, error) {
	const query = `
		SELECT user_id, username, email, full_name, password_hash, role, balance, created_at, updated_at
		FROM accounts
		ORDER BY created_at DESC
	`

	var accounts []models.AccountDB
	err := r.db.SelectContext(ctx, &accounts, query)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"result", len(accounts),
		"error", err,
	)

	return accounts, err
}

// AccountWriteRepository handles account write operations. Balance is never
// written here: balance mutations go through TransactionWriteRepository so
// they always co-commit with a transaction record.
type AccountWriteRepository struct {
	db *sqlx.DB
}

func NewAccountWriteRepository(db *sqlx.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// Save inserts a new account with zero balance and returns it.
func (r *AccountWriteRepository) Save(ctx context.Context, username, email, passwordHash, role string) (*models.AccountDB, error) {
	const query = `
		INSERT INTO accounts (user_id, username, email, password_hash, role, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING user_id, username, email, full_name, password_hash, role, balance, created_at, updated_at
	`
	args := []any{uuid.New(), username, email, passwordHash, role}

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{username, email, role},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &account, nil
}

// UpdateFullName sets the display name of an account and returns the
// updated row, or nil when the account does not exist.
func (r *AccountWriteRepository) UpdateFullName(ctx context.Context, userID uuid.UUID, fullName *string) (*models.AccountDB, error) {
	const query = `
		UPDATE accounts
		SET full_name = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING user_id, username, email, full_name, password_hash, role, balance, created_at, updated_at
	`

	var account models.AccountDB
	err := r.db.GetContext(ctx, &account, query, userID, fullName)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, fullName},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// UpdatePassword replaces the password hash of an account.
func (r *AccountWriteRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	const query = `
		UPDATE accounts
		SET password_hash = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	res, err := r.db.ExecContext(ctx, query, userID, passwordHash)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}
