package models

import "github.com/shopspring/decimal"

// DailyVolume is one day's deposit and withdraw volume, counting approved
// and pending transactions.
type DailyVolume struct {
	Date     string          `json:"date" db:"date"`
	Deposit  decimal.Decimal `json:"deposit" db:"deposit"`
	Withdraw decimal.Decimal `json:"withdraw" db:"withdraw"`
}

// SystemStats aggregates ledger-wide counters for the admin dashboard.
type SystemStats struct {
	TotalUsers          int64           `json:"total_users"`
	TotalBalance        decimal.Decimal `json:"total_balance"`
	TotalTransactions   int64           `json:"total_transactions"`
	TotalDeposit        decimal.Decimal `json:"total_deposit"`
	TotalWithdraw       decimal.Decimal `json:"total_withdraw"`
	PendingDeposits     int64           `json:"pending_deposits"`
	PendingWithdrawals  int64           `json:"pending_withdrawals"`
	PendingTransactions int64           `json:"pending_transactions"`
	DailyStats          []DailyVolume   `json:"daily_stats"`
}
