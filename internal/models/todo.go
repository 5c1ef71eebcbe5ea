package models

import (
	"time"

	"github.com/google/uuid"
)

// TodoDB represents a todo item record in the database. Todos share the
// authentication layer with the ledger but are otherwise independent.
type TodoDB struct {
	TodoID     uuid.UUID `json:"todo_id" db:"todo_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Title      string    `json:"title" db:"title"`
	IsComplete bool      `json:"is_complete" db:"is_complete"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
