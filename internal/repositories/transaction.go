package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

const transactionColumns = `transaction_id, user_id, amount, type, status, created_at, updated_at`

// TransactionWriteRepository handles transaction write operations. Every
// balance mutation in the system lives here, inside a database transaction
// that co-commits the balance change with the owning transaction row.
type TransactionWriteRepository struct {
	db *sqlx.DB
}

func NewTransactionWriteRepository(db *sqlx.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// Save inserts a new pending transaction and returns it. The account
// balance is not touched.
func (r *TransactionWriteRepository) Save(ctx context.Context, userID uuid.UUID, txType string, amount decimal.Decimal) (*models.TransactionDB, error) {
	query := `
		INSERT INTO transactions (transaction_id, user_id, amount, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
		RETURNING ` + transactionColumns

	var txn models.TransactionDB
	err := r.db.GetContext(ctx, &txn, query, uuid.New(), userID, amount, txType)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, txType, amount},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// ApplyReview commits a review decision for a pending transaction. The
// status transition and the balance mutation happen in a single database
// transaction: either both apply or neither does.
//
// The pending row is locked with FOR UPDATE and the status update carries a
// status = 'pending' predicate, so of two concurrent reviewers exactly one
// commits; the other sees ErrTransactionNotPending. An approved withdrawal
// re-validates the balance with a balance >= amount predicate at the moment
// of the debit; on insufficient funds everything rolls back and the
// transaction stays pending.
func (r *TransactionWriteRepository) ApplyReview(ctx context.Context, transactionID uuid.UUID, decision string) (*models.TransactionDB, error) {
	newStatus := models.StatusRejected
	if decision == models.DecisionApprove {
		newStatus = models.StatusApproved
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	lockQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1
		FOR UPDATE`

	var txn models.TransactionDB
	err = tx.GetContext(ctx, &txn, lockQuery, transactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(txn.Status, newStatus) {
		return nil, models.ErrTransactionNotPending
	}

	if newStatus == models.StatusApproved {
		if err := applyBalanceDelta(ctx, tx, &txn); err != nil {
			return nil, err
		}
	}

	updateQuery := `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE transaction_id = $1 AND status = 'pending'
		RETURNING ` + transactionColumns

	err = tx.GetContext(ctx, &txn, updateQuery, transactionID, newStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrTransactionNotPending
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(updateQuery), " "),
		"args", []any{transactionID, newStatus},
		"result", txn.Status,
		"error", nil,
	)

	return &txn, nil
}

// applyBalanceDelta credits or debits the owning account for an approved
// transaction inside the given database transaction.
func applyBalanceDelta(ctx context.Context, tx *sqlx.Tx, txn *models.TransactionDB) error {
	var query string
	switch txn.Type {
	case models.TypeDeposit:
		query = `
			UPDATE accounts
			SET balance = balance + $2, updated_at = NOW()
			WHERE user_id = $1
			RETURNING balance`
	case models.TypeWithdraw:
		query = `
			UPDATE accounts
			SET balance = balance - $2, updated_at = NOW()
			WHERE user_id = $1 AND balance >= $2
			RETURNING balance`
	default:
		return fmt.Errorf("unknown transaction type %q", txn.Type)
	}

	var balance decimal.Decimal
	err := tx.GetContext(ctx, &balance, query, txn.UserID, txn.Amount)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{txn.UserID, txn.Amount},
		"result", balance,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		if txn.Type == models.TypeWithdraw {
			return models.ErrInsufficientBalance
		}
		return models.ErrAccountNotFound
	}
	return err
}

// SaveRecharge credits an account directly and records an already-approved
// deposit transaction, atomically. This is the only sanctioned balance
// mutation outside ApplyReview.
func (r *TransactionWriteRepository) SaveRecharge(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*models.TransactionDB, decimal.Decimal, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer tx.Rollback()

	creditQuery := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance`

	var balance decimal.Decimal
	err = tx.GetContext(ctx, &balance, creditQuery, userID, amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, decimal.Zero, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, decimal.Zero, err
	}

	insertQuery := `
		INSERT INTO transactions (transaction_id, user_id, amount, type, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'deposit', 'approved', NOW(), NOW())
		RETURNING ` + transactionColumns

	var txn models.TransactionDB
	if err := tx.GetContext(ctx, &txn, insertQuery, uuid.New(), userID, amount); err != nil {
		return nil, decimal.Zero, err
	}

	if err := tx.Commit(); err != nil {
		return nil, decimal.Zero, err
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(insertQuery), " "),
		"args", []any{userID, amount},
		"result", balance,
		"error", nil,
	)

	return &txn, balance, nil
}

// TransactionReadRepository handles transaction read operations. These are
// projections of committed state with no invariants of their own.
type TransactionReadRepository struct {
	db *sqlx.DB
}

func NewTransactionReadRepository(db *sqlx.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// List returns transactions matching the filter, newest-first.
func (r *TransactionReadRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.TransactionDB, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var conds []string
	var args []any
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Type != nil {
		addCond("type = $%d", *filter.Type)
	}
	if filter.Status != nil {
		addCond("status = $%d", *filter.Status)
	}
	if filter.UserID != nil {
		addCond("user_id = $%d", *filter.UserID)
	}
	if filter.StartDate != nil {
		addCond("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addCond("created_at <= $%d", *filter.EndDate)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	var txns []models.TransactionDB
	err := r.db.SelectContext(ctx, &txns, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", len(txns),
		"error", err,
	)

	return txns, err
}

// DailyVolumes returns per-day deposit and withdraw sums since the given
// time, counting approved and pending transactions. A nil userID spans all
// users.
func (r *TransactionReadRepository) DailyVolumes(ctx context.Context, userID *uuid.UUID, since time.Time) ([]models.DailyVolume, error) {
	const query = `
		SELECT TO_CHAR(date_trunc('day', created_at), 'YYYY-MM-DD') AS date,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'deposit'), 0) AS deposit,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw'), 0) AS withdraw
		FROM transactions
		WHERE status IN ('approved', 'pending')
		  AND created_at >= $1
		  AND ($2::UUID IS NULL OR user_id = $2)
		GROUP BY date_trunc('day', created_at)
		ORDER BY date_trunc('day', created_at)
	`

	var volumes []models.DailyVolume
	err := r.db.SelectContext(ctx, &volumes, query, since, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{since, userID},
		"result", len(volumes),
		"error", err,
	)

	return volumes, err
}
