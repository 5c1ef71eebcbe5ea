package repositories

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/avolkov-dev/gw-ledger-review/internal/logger"
	"github.com/avolkov-dev/gw-ledger-review/internal/models"
)

// StatsReadRepository aggregates ledger-wide counters for the admin
// dashboard.
type StatsReadRepository struct {
	db *sqlx.DB
}

func NewStatsReadRepository(db *sqlx.DB) *StatsReadRepository {
	return &StatsReadRepository{db: db}
}

// Totals returns system-wide account and transaction aggregates. The daily
// series is filled in by the caller.
func (r *StatsReadRepository) Totals(ctx context.Context) (*models.SystemStats, error) {
	const accountsQuery = `
		SELECT COUNT(*) AS total_users,
		       COALESCE(SUM(balance), 0) AS total_balance
		FROM accounts
	`

	var accountTotals struct {
		TotalUsers   int64           `db:"total_users"`
		TotalBalance decimal.Decimal `db:"total_balance"`
	}
	err := r.db.GetContext(ctx, &accountTotals, accountsQuery)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(accountsQuery), " "),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	const transactionsQuery = `
		SELECT COUNT(*) AS total_transactions,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'deposit' AND status = 'approved'), 0) AS total_deposit,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'withdraw' AND status = 'approved'), 0) AS total_withdraw,
		       COUNT(*) FILTER (WHERE type = 'deposit' AND status = 'pending') AS pending_deposits,
		       COUNT(*) FILTER (WHERE type = 'withdraw' AND status = 'pending') AS pending_withdrawals
		FROM transactions
	`

	var txnTotals struct {
		TotalTransactions  int64           `db:"total_transactions"`
		TotalDeposit       decimal.Decimal `db:"total_deposit"`
		TotalWithdraw      decimal.Decimal `db:"total_withdraw"`
		PendingDeposits    int64           `db:"pending_deposits"`
		PendingWithdrawals int64           `db:"pending_withdrawals"`
	}
	err = r.db.GetContext(ctx, &txnTotals, transactionsQuery)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(transactionsQuery), " "),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &models.SystemStats{
		TotalUsers:          accountTotals.TotalUsers,
		TotalBalance:        accountTotals.TotalBalance,
		TotalTransactions:   txnTotals.TotalTransactions,
		TotalDeposit:        txnTotals.TotalDeposit,
		TotalWithdraw:       txnTotals.TotalWithdraw,
		PendingDeposits:     txnTotals.PendingDeposits,
		PendingWithdrawals:  txnTotals.PendingWithdrawals,
		PendingTransactions: txnTotals.PendingDeposits + txnTotals.PendingWithdrawals,
	}, nil
}
