package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types. Immutable after creation.
const (
	TypeDeposit  = "deposit"
	TypeWithdraw = "withdraw"
)

// Transaction statuses. Forward-only: a transaction leaves pending exactly
// once and never returns.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review decisions accepted by the review endpoint.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// transitions is the explicit status transition table. A status missing
// here has no legal outgoing transition.
var transitions = map[string][]string{
	StatusPending: {StatusApproved, StatusRejected},
}

// CanTransition reports whether a status change from one status to another
// is legal.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransactionDB represents a ledger transaction record in the database.
// Amount is always positive; the sign is implied by Type.
type TransactionDB struct {
	TransactionID uuid.UUID       `json:"transaction_id" db:"transaction_id"` // Primary key
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`               // Owning account
	Amount        decimal.Decimal `json:"amount" db:"amount"`                 // Positive amount
	Type          string          `json:"type" db:"type"`                     // TypeDeposit or TypeWithdraw
	Status        string          `json:"status" db:"status"`                 // Current lifecycle status
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`         // Creation timestamp
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`         // Changes only on status transition
}

// TransactionFilter narrows transaction listings. Nil fields are ignored.
// EndDate is inclusive up to the end of the named day.
type TransactionFilter struct {
	Type      *string
	Status    *string
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
