package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Roles assignable to an account.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AccountDB represents an account record in the database.
// Balance is NUMERIC(20,2) in Postgres and must never go negative.
type AccountDB struct {
	UserID       uuid.UUID       `json:"user_id" db:"user_id"`           // Primary key
	Username     string          `json:"username" db:"username"`         // Unique username
	Email        string          `json:"email" db:"email"`               // Unique email
	FullName     *string         `json:"full_name" db:"full_name"`       // Optional display name
	PasswordHash string          `json:"-" db:"password_hash"`           // Hashed password, never serialized
	Role         string          `json:"role" db:"role"`                 // RoleAdmin or RoleUser
	Balance      decimal.Decimal `json:"balance" db:"balance"`           // Current ledger balance
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`     // Creation timestamp
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`     // Last update timestamp
}

// IsAdmin reports whether the account has administrator rights.
func (a *AccountDB) IsAdmin() bool {
	return a.Role == RoleAdmin
}
